package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/artifact"
	"github.com/dev265545/store-monitor/internal/config"
	"github.com/dev265545/store-monitor/internal/database"
	"github.com/dev265545/store-monitor/internal/engine"
	httpapi "github.com/dev265545/store-monitor/internal/http"
	"github.com/dev265545/store-monitor/internal/logger"
	"github.com/dev265545/store-monitor/internal/repository"
	"github.com/dev265545/store-monitor/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "store-monitor")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	policy, err := engine.ParseReferencePolicy(cfg.Reports.ReferencePolicy)
	if err != nil {
		log.Warn("invalid REFERENCE_POLICY, using global", zap.Error(err))
		policy = engine.ReferenceGlobalMax
	}
	eng := engine.NewEngine(engine.GapSumEstimator{}, policy, log)

	artifacts, err := artifact.NewStore(cfg.Reports.Dir, log)
	if err != nil {
		log.Fatal("failed to prepare reports directory", zap.Error(err))
	}

	// Postgres with in-memory fallback so the API stays usable in dev
	// without a database.
	var db *sql.DB
	var snapshots repository.SnapshotRepository
	var reports repository.ReportsRepository
	if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
		db = d
		if err := database.InitSchema(db, log); err != nil {
			log.Fatal("failed to initialize schema", zap.Error(err))
		}
		snapshots = repository.NewPostgresSnapshotRepo(db, log)
		reports = repository.NewPostgresReportsRepo(db, log)
		log.Info("DB enabled for store-monitor")
	} else {
		log.Warn("DB connection failed, falling back to in-memory repositories", zap.Error(err))
		snapshots = repository.NewMemorySnapshotRepo()
		reports = repository.NewMemoryReportsRepo()
	}

	// Redis status cache is optional; without it polls go straight to the
	// reports repository.
	var cache service.KVStore
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err == nil {
		cache = service.NewRedisKVStore(redisClient)
	} else {
		log.Warn("redis unavailable, report status cache disabled", zap.Error(err))
	}

	svc := service.NewReportService(
		snapshots, reports, artifacts, eng, cache, cfg.Reports.StatusCacheTTL, log)

	router := httpapi.NewRouter(log)
	router.RegisterReportRoutes(httpapi.NewReportHandler(svc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("http server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
