package repository

import (
	"context"
	"sync"
	"time"

	"github.com/dev265545/store-monitor/internal/domain"
)

// MemorySnapshotRepo holds the snapshot in memory. Used for unit tests and
// for DB-less development mode (same fallback role the postgres repos play
// when the database is reachable).
type MemorySnapshotRepo struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

func NewMemorySnapshotRepo() *MemorySnapshotRepo {
	return &MemorySnapshotRepo{
		snap: domain.Snapshot{Stores: make(map[int64]domain.Store)},
	}
}

func (r *MemorySnapshotRepo) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Copy so callers cannot mutate the repo's view.
	out := domain.Snapshot{
		Stores:       make(map[int64]domain.Store, len(r.snap.Stores)),
		Observations: make([]domain.StatusObservation, len(r.snap.Observations)),
		Rules:        make([]domain.BusinessHoursRule, len(r.snap.Rules)),
	}
	for id, s := range r.snap.Stores {
		out.Stores[id] = s
	}
	copy(out.Observations, r.snap.Observations)
	copy(out.Rules, r.snap.Rules)
	return out, nil
}

func (r *MemorySnapshotRepo) BulkInsertStores(ctx context.Context, stores []domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stores {
		r.snap.Stores[s.ID] = s
	}
	return nil
}

func (r *MemorySnapshotRepo) BulkInsertObservations(ctx context.Context, obs []domain.StatusObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Observations = append(r.snap.Observations, obs...)
	return nil
}

func (r *MemorySnapshotRepo) BulkInsertBusinessHours(ctx context.Context, rules []domain.BusinessHoursRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Rules = append(r.snap.Rules, rules...)
	return nil
}

// MemoryReportsRepo is the in-memory ReportsRepository counterpart.
type MemoryReportsRepo struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

func NewMemoryReportsRepo() *MemoryReportsRepo {
	return &MemoryReportsRepo{reports: make(map[string]domain.Report)}
}

func (r *MemoryReportsRepo) CreateReport(ctx context.Context, report domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

func (r *MemoryReportsRepo) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	out := report
	return &out, nil
}

func (r *MemoryReportsRepo) MarkComplete(ctx context.Context, id string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	report.Status = domain.ReportComplete
	report.CompletedAt = &completedAt
	r.reports[id] = report
	return nil
}

func (r *MemoryReportsRepo) MarkFailed(ctx context.Context, id string, reason string, failedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	report.Status = domain.ReportFailed
	report.FailedAt = &failedAt
	report.Error = reason
	r.reports[id] = report
	return nil
}
