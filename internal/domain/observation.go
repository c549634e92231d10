package domain

import (
	"fmt"
	"time"
)

// Status 门店状态枚举 ('active' / 'inactive')
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus validates the raw CSV/DB status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// StatusObservation 状态观测领域模型 (maps to the store_status table)
// One poll result for one store. The collection is append-only and the
// engine treats it as a read-only snapshot.
type StatusObservation struct {
	StoreID      int64     `db:"store_id"`      // BIGINT, NOT NULL
	TimestampUTC time.Time `db:"timestamp_utc"` // TIMESTAMPTZ, NOT NULL
	Status       Status    `db:"status"`        // VARCHAR(10), 'active'/'inactive'
}
