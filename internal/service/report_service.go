package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/artifact"
	"github.com/dev265545/store-monitor/internal/domain"
	"github.com/dev265545/store-monitor/internal/engine"
	"github.com/dev265545/store-monitor/internal/repository"
)

const statusCacheKeyPrefix = "report:status:"

// ReportService owns the report lifecycle: trigger a run, execute the batch
// pipeline in the background, answer status polls.
type ReportService struct {
	snapshots repository.SnapshotRepository
	reports   repository.ReportsRepository
	artifacts *artifact.Store
	engine    *engine.Engine

	// Optional status cache so polling does not hit postgres on every call.
	// nil disables caching.
	cache    KVStore
	cacheTTL time.Duration

	logger *zap.Logger
}

func NewReportService(
	snapshots repository.SnapshotRepository,
	reports repository.ReportsRepository,
	artifacts *artifact.Store,
	eng *engine.Engine,
	cache KVStore,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		snapshots: snapshots,
		reports:   reports,
		artifacts: artifacts,
		engine:    eng,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Trigger creates a new Running report and starts the pipeline in the
// background, fire-and-forget relative to the request. Each trigger gets a
// fresh uuid, so concurrent runs never share a report identifier.
func (s *ReportService) Trigger(ctx context.Context) (string, error) {
	report := domain.Report{
		ID:        uuid.NewString(),
		Status:    domain.ReportRunning,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	s.cacheReport(ctx, report)

	// The run outlives the triggering request.
	go func() {
		if err := s.Generate(context.Background(), report.ID); err != nil {
			s.logger.Error("report generation failed",
				zap.String("report_id", report.ID), zap.Error(err))
		}
	}()

	s.logger.Info("report triggered", zap.String("report_id", report.ID))
	return report.ID, nil
}

// Generate runs the full pipeline for one report id: load snapshot, estimate
// coverage, write the CSV artifact, mark the report Complete. Any failure
// transitions the report to Failed with the captured reason instead of
// leaving it Running forever.
func (s *ReportService) Generate(ctx context.Context, reportID string) error {
	if err := s.generate(ctx, reportID); err != nil {
		s.markFailed(ctx, reportID, err)
		return err
	}
	return nil
}

func (s *ReportService) generate(ctx context.Context, reportID string) error {
	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	rows, err := s.engine.Run(snap)
	if err != nil {
		return err
	}

	if _, err := s.artifacts.WriteCSV(reportID, rows); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	completedAt := time.Now().UTC()
	if err := s.reports.MarkComplete(ctx, reportID, completedAt); err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}

	if report, err := s.reports.GetReport(ctx, reportID); err == nil {
		s.cacheReport(ctx, *report)
	}
	s.logger.Info("report completed",
		zap.String("report_id", reportID), zap.Int("rows", len(rows)))
	return nil
}

func (s *ReportService) markFailed(ctx context.Context, reportID string, cause error) {
	failedAt := time.Now().UTC()
	if err := s.reports.MarkFailed(ctx, reportID, cause.Error(), failedAt); err != nil {
		s.logger.Error("failed to record report failure",
			zap.String("report_id", reportID), zap.Error(err))
		return
	}
	if report, err := s.reports.GetReport(ctx, reportID); err == nil {
		s.cacheReport(ctx, *report)
	}
}

// Status answers a poll, preferring the cache. Cache entries are rewritten
// on every transition and expire via TTL; a miss falls through to postgres.
func (s *ReportService) Status(ctx context.Context, reportID string) (*domain.Report, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statusCacheKeyPrefix+reportID); err == nil {
			var report domain.Report
			if err := json.Unmarshal([]byte(raw), &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	s.cacheReport(ctx, *report)
	return report, nil
}

// Rows loads the finished artifact for download/export. Only Complete
// reports have one.
func (s *ReportService) Rows(ctx context.Context, reportID string) ([]domain.ReportRow, error) {
	report, err := s.Status(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportComplete {
		return nil, artifact.ErrArtifactNotFound
	}
	return s.artifacts.ReadCSV(reportID)
}

// ArtifactPath returns the CSV location for a Complete report.
func (s *ReportService) ArtifactPath(ctx context.Context, reportID string) (string, error) {
	report, err := s.Status(ctx, reportID)
	if err != nil {
		return "", err
	}
	if report.Status != domain.ReportComplete {
		return "", artifact.ErrArtifactNotFound
	}
	return s.artifacts.Path(reportID), nil
}

func (s *ReportService) cacheReport(ctx context.Context, report domain.Report) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statusCacheKeyPrefix+report.ID, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("status cache write failed",
			zap.String("report_id", report.ID), zap.Error(err))
	}
}
