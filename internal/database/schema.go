package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// InitSchema creates the tables if they don't exist. Safe to run on every
// startup.
func InitSchema(db *sql.DB, logger *zap.Logger) error {
	storesTableSQL := `
	CREATE TABLE IF NOT EXISTS stores (
		store_id     BIGINT PRIMARY KEY,
		timezone_str TEXT
	)`
	if _, err := db.Exec(storesTableSQL); err != nil {
		return fmt.Errorf("failed to create stores table: %w", err)
	}

	statusTableSQL := `
	CREATE TABLE IF NOT EXISTS store_status (
		store_id      BIGINT NOT NULL,
		timestamp_utc TIMESTAMPTZ NOT NULL,
		status        TEXT NOT NULL
	)`
	if _, err := db.Exec(statusTableSQL); err != nil {
		return fmt.Errorf("failed to create store_status table: %w", err)
	}
	statusIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_store_status_store_ts
		ON store_status (store_id, timestamp_utc)`
	if _, err := db.Exec(statusIndexSQL); err != nil {
		return fmt.Errorf("failed to index store_status: %w", err)
	}

	hoursTableSQL := `
	CREATE TABLE IF NOT EXISTS business_hours (
		store_id         BIGINT NOT NULL,
		day_of_week      SMALLINT NOT NULL,
		start_time_local TEXT NOT NULL,
		end_time_local   TEXT NOT NULL
	)`
	if _, err := db.Exec(hoursTableSQL); err != nil {
		return fmt.Errorf("failed to create business_hours table: %w", err)
	}

	reportsTableSQL := `
	CREATE TABLE IF NOT EXISTS reports (
		report_id    TEXT PRIMARY KEY,
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		failed_at    TIMESTAMPTZ,
		error        TEXT
	)`
	if _, err := db.Exec(reportsTableSQL); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}

	logger.Info("database schema created/verified")
	return nil
}
