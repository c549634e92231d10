package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dev265545/store-monitor/internal/domain"
)

// ErrReportNotFound 报告不存在
var ErrReportNotFound = errors.New("report not found")

// SnapshotRepository loads the full read-only batch input for one engine run:
// all stores, all status observations, all business hours rules.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// ReportsRepository persists report lifecycle state.
type ReportsRepository interface {
	CreateReport(ctx context.Context, report domain.Report) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)

	// MarkComplete transitions Running -> Complete with a completion time.
	MarkComplete(ctx context.Context, id string, completedAt time.Time) error

	// MarkFailed transitions Running -> Failed with the captured reason, so a
	// broken run is observable instead of staying Running forever.
	MarkFailed(ctx context.Context, id string, reason string, failedAt time.Time) error
}

// IngestRepository is the write side used by the bulk CSV loader.
type IngestRepository interface {
	BulkInsertStores(ctx context.Context, stores []domain.Store) error
	BulkInsertObservations(ctx context.Context, obs []domain.StatusObservation) error
	BulkInsertBusinessHours(ctx context.Context, rules []domain.BusinessHoursRule) error
}
