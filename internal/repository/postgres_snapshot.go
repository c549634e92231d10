package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/domain"
)

type PostgresSnapshotRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresSnapshotRepo(db *sql.DB, logger *zap.Logger) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{db: db, logger: logger}
}

// LoadSnapshot reads stores, observations and business hours in one pass.
// Malformed rows (bad status value, bad time-of-day string) are skipped and
// counted, never fatal: ingestion already dropped unparsable timestamps, and
// the engine tolerates sparse data by design.
func (r *PostgresSnapshotRepo) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{Stores: make(map[int64]domain.Store)}

	if err := r.loadStores(ctx, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	if err := r.loadObservations(ctx, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	if err := r.loadBusinessHours(ctx, &snap); err != nil {
		return domain.Snapshot{}, err
	}

	r.logger.Info("snapshot loaded",
		zap.Int("stores", len(snap.Stores)),
		zap.Int("observations", len(snap.Observations)),
		zap.Int("business_hours_rules", len(snap.Rules)),
	)
	return snap, nil
}

func (r *PostgresSnapshotRepo) loadStores(ctx context.Context, snap *domain.Snapshot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT store_id, COALESCE(timezone_str, '') FROM stores`)
	if err != nil {
		return fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Timezone); err != nil {
			return fmt.Errorf("scan store: %w", err)
		}
		snap.Stores[s.ID] = s
	}
	return rows.Err()
}

func (r *PostgresSnapshotRepo) loadObservations(ctx context.Context, snap *domain.Snapshot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT store_id, timestamp_utc, status FROM store_status`)
	if err != nil {
		return fmt.Errorf("query store_status: %w", err)
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var o domain.StatusObservation
		var rawStatus string
		if err := rows.Scan(&o.StoreID, &o.TimestampUTC, &rawStatus); err != nil {
			return fmt.Errorf("scan store_status: %w", err)
		}
		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			skipped++
			continue
		}
		o.Status = status
		snap.Observations = append(snap.Observations, o)
	}
	if skipped > 0 {
		r.logger.Warn("skipped observations with unknown status", zap.Int("count", skipped))
	}
	return rows.Err()
}

func (r *PostgresSnapshotRepo) loadBusinessHours(ctx context.Context, snap *domain.Snapshot) error {
	// Ordered so the earliest-start tie-break for duplicate store/weekday
	// rows is stable across runs.
	rows, err := r.db.QueryContext(ctx,
		`SELECT store_id, day_of_week, start_time_local, end_time_local
		 FROM business_hours
		 ORDER BY store_id, day_of_week, start_time_local`)
	if err != nil {
		return fmt.Errorf("query business_hours: %w", err)
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var storeID int64
		var weekday int
		var startRaw, endRaw string
		if err := rows.Scan(&storeID, &weekday, &startRaw, &endRaw); err != nil {
			return fmt.Errorf("scan business_hours: %w", err)
		}
		start, err := domain.ParseDayTime(startRaw)
		if err != nil {
			skipped++
			continue
		}
		end, err := domain.ParseDayTime(endRaw)
		if err != nil {
			skipped++
			continue
		}
		snap.Rules = append(snap.Rules, domain.BusinessHoursRule{
			StoreID:    storeID,
			Weekday:    weekday,
			StartLocal: start,
			EndLocal:   end,
		})
	}
	if skipped > 0 {
		r.logger.Warn("skipped business hours rules with bad time of day", zap.Int("count", skipped))
	}
	return rows.Err()
}
