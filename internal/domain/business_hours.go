package domain

import (
	"fmt"
	"time"
)

// DayTime is a local wall-clock time of day expressed as seconds since
// midnight. Business hours rules compare against it inclusively on both ends.
type DayTime int

// ParseDayTime parses "HH:MM:SS" (the business_hours CSV format).
func ParseDayTime(s string) (DayTime, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return DayTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

// DayTimeOf extracts the time-of-day portion of a local timestamp.
func DayTimeOf(t time.Time) DayTime {
	return DayTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(d)/3600, int(d)/60%60, int(d)%60)
}

// BusinessHoursRule 营业时间规则 (maps to the business_hours table)
// Weekday follows the source data convention: 0=Monday .. 6=Sunday.
// A store/weekday pair with no rule at all is open 24 hours that day.
type BusinessHoursRule struct {
	StoreID    int64   `db:"store_id"`         // BIGINT, NOT NULL
	Weekday    int     `db:"day_of_week"`      // SMALLINT, 0=Monday..6=Sunday
	StartLocal DayTime `db:"start_time_local"` // stored as "HH:MM:SS"
	EndLocal   DayTime `db:"end_time_local"`   // stored as "HH:MM:SS"
}
