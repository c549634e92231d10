package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/domain"
)

type PostgresReportsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresReportsRepo(db *sql.DB, logger *zap.Logger) *PostgresReportsRepo {
	return &PostgresReportsRepo{db: db, logger: logger}
}

func (r *PostgresReportsRepo) CreateReport(ctx context.Context, report domain.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (report_id, status, created_at)
		 VALUES ($1, $2, $3)`,
		report.ID, report.Status, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

func (r *PostgresReportsRepo) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var report domain.Report
	var completedAt, failedAt sql.NullTime
	var reason sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT report_id, status, created_at, completed_at, failed_at, error
		 FROM reports WHERE report_id = $1`,
		id,
	).Scan(&report.ID, &report.Status, &report.CreatedAt, &completedAt, &failedAt, &reason)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query report %s: %w", id, err)
	}

	if completedAt.Valid {
		report.CompletedAt = &completedAt.Time
	}
	if failedAt.Valid {
		report.FailedAt = &failedAt.Time
	}
	if reason.Valid {
		report.Error = reason.String
	}
	return &report, nil
}

func (r *PostgresReportsRepo) MarkComplete(ctx context.Context, id string, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = $1, completed_at = $2 WHERE report_id = $3`,
		domain.ReportComplete, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("mark report %s complete: %w", id, err)
	}
	return r.requireOneRow(res, id)
}

func (r *PostgresReportsRepo) MarkFailed(ctx context.Context, id string, reason string, failedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = $1, failed_at = $2, error = $3 WHERE report_id = $4`,
		domain.ReportFailed, failedAt, reason, id,
	)
	if err != nil {
		return fmt.Errorf("mark report %s failed: %w", id, err)
	}
	return r.requireOneRow(res, id)
}

func (r *PostgresReportsRepo) requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReportNotFound
	}
	if n > 1 {
		r.logger.Warn("report update touched multiple rows",
			zap.String("report_id", id), zap.Int64("rows", n))
	}
	return nil
}
