package domain

import "time"

// ReportStatus 报告生命周期状态
// Running -> Complete on success, Running -> Failed on a pipeline fault.
// Failed is terminal and carries the captured error reason, so a broken run
// is observable instead of staying "Running" forever.
type ReportStatus string

const (
	ReportRunning  ReportStatus = "Running"
	ReportComplete ReportStatus = "Complete"
	ReportFailed   ReportStatus = "Failed"
)

// Report 报告领域模型 (maps to the reports table)
type Report struct {
	ID          string       `db:"report_id"`    // UUID string, PRIMARY KEY
	Status      ReportStatus `db:"status"`       // VARCHAR(16)
	CreatedAt   time.Time    `db:"created_at"`   // TIMESTAMPTZ, NOT NULL
	CompletedAt *time.Time   `db:"completed_at"` // TIMESTAMPTZ, nullable
	FailedAt    *time.Time   `db:"failed_at"`    // TIMESTAMPTZ, nullable
	Error       string       `db:"error"`        // TEXT, failure reason, nullable
}

// ReportRow is one line of the final report artifact. Hour-window figures are
// minutes; day and week figures are hours.
type ReportRow struct {
	StoreID          int64
	UptimeLastHour   float64
	DowntimeLastHour float64
	UptimeLastDay    float64
	DowntimeLastDay  float64
	UptimeLastWeek   float64
	DowntimeLastWeek float64
}

// Snapshot is the full read-only batch input loaded once at run start.
type Snapshot struct {
	Stores       map[int64]Store
	Observations []StatusObservation
	Rules        []BusinessHoursRule
}
