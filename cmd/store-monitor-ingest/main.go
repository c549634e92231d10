package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/config"
	"github.com/dev265545/store-monitor/internal/database"
	"github.com/dev265545/store-monitor/internal/ingest"
	"github.com/dev265545/store-monitor/internal/logger"
	"github.com/dev265545/store-monitor/internal/repository"
)

// Bulk loads the three source CSVs (local paths or http URLs) into postgres.
// Meant to run once before the API serves reports, or again whenever a new
// data drop arrives.
func main() {
	var src ingest.Sources
	flag.StringVar(&src.StoreStatus, "store-status", "", "store status CSV (path or URL)")
	flag.StringVar(&src.BusinessHours, "business-hours", "", "business hours CSV (path or URL)")
	flag.StringVar(&src.Timezones, "timezones", "", "store timezone CSV (path or URL)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall load timeout")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "store-monitor-ingest")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if src.StoreStatus == "" && src.BusinessHours == "" && src.Timezones == "" {
		log.Fatal("nothing to load: pass at least one of -store-status, -business-hours, -timezones")
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.InitSchema(db, log); err != nil {
		log.Fatal("failed to initialize schema", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loader := ingest.NewLoader(
		repository.NewPostgresIngestRepo(db, log),
		ingest.NewFetcher(log),
		log)

	start := time.Now()
	if err := loader.LoadAll(ctx, src); err != nil {
		log.Fatal("bulk load failed", zap.Error(err))
	}
	log.Info("bulk load finished", zap.Duration("elapsed", time.Since(start)))
}
