package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.Database != "storemonitor" {
		t.Errorf("Expected DB_NAME default 'storemonitor', got '%s'", cfg.Database.Database)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Redis.Addr)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected HTTP_ADDR default ':8080', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.Reports.Dir != "reports" {
		t.Errorf("Expected REPORTS_DIR default 'reports', got '%s'", cfg.Reports.Dir)
	}
	if cfg.Reports.ReferencePolicy != "global" {
		t.Errorf("Expected REFERENCE_POLICY default 'global', got '%s'", cfg.Reports.ReferencePolicy)
	}
	if cfg.Reports.StatusCacheTTL != 30*time.Second {
		t.Errorf("Expected status cache TTL default 30s, got %v", cfg.Reports.StatusCacheTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("REFERENCE_POLICY", "per-store")
	os.Setenv("REPORTS_DIR", "/var/reports")
	os.Setenv("REPORT_STATUS_CACHE_TTL", "2m")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg := Load()

	if cfg.Database.Host != "test-host" {
		t.Errorf("Expected DB_HOST 'test-host', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("Expected DB_PORT 5433, got %d", cfg.Database.Port)
	}
	if cfg.Reports.ReferencePolicy != "per-store" {
		t.Errorf("Expected REFERENCE_POLICY 'per-store', got '%s'", cfg.Reports.ReferencePolicy)
	}
	if cfg.Reports.Dir != "/var/reports" {
		t.Errorf("Expected REPORTS_DIR '/var/reports', got '%s'", cfg.Reports.Dir)
	}
	if cfg.Reports.StatusCacheTTL != 2*time.Minute {
		t.Errorf("Expected status cache TTL 2m, got %v", cfg.Reports.StatusCacheTTL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_InvalidNumericFallsBack(t *testing.T) {
	os.Setenv("DB_PORT", "not-a-port")
	os.Setenv("REPORT_STATUS_CACHE_TTL", "soon")
	defer os.Clearenv()

	cfg := Load()

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected invalid DB_PORT to fall back to 5432, got %d", cfg.Database.Port)
	}
	if cfg.Reports.StatusCacheTTL != 30*time.Second {
		t.Errorf("Expected invalid TTL to fall back to 30s, got %v", cfg.Reports.StatusCacheTTL)
	}
}
