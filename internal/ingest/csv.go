package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/domain"
)

// Timestamp layouts seen in the source data. The fractional part is optional
// in the 9-digit layouts, so each entry covers both with and without
// microseconds.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999 UTC",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

// parseTimestamp tries the known layouts in order. All source timestamps are
// UTC wall-clock values.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// ParseStats counts how a CSV parse went. Dropped rows are a per-row anomaly
// (unparsable timestamp, unknown status, bad number), absorbed rather than
// fatal.
type ParseStats struct {
	Total   int
	Dropped int
}

// header resolves required column names to indices, case-insensitively.
func header(record []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(record))
	for i, col := range record {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	out := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		out[name] = i
	}
	return out, nil
}

// ParseObservations reads store_status.csv
// (columns: store_id, status, timestamp_utc).
func ParseObservations(r io.Reader, logger *zap.Logger) ([]domain.StatusObservation, ParseStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("read store_status header: %w", err)
	}
	cols, err := header(head, "store_id", "status", "timestamp_utc")
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("store_status: %w", err)
	}

	var obs []domain.StatusObservation
	var stats ParseStats
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read store_status row: %w", err)
		}
		stats.Total++

		storeID, err := strconv.ParseInt(strings.TrimSpace(rec[cols["store_id"]]), 10, 64)
		if err != nil {
			stats.Dropped++
			continue
		}
		status, err := domain.ParseStatus(strings.TrimSpace(rec[cols["status"]]))
		if err != nil {
			stats.Dropped++
			continue
		}
		ts, err := parseTimestamp(rec[cols["timestamp_utc"]])
		if err != nil {
			stats.Dropped++
			continue
		}
		obs = append(obs, domain.StatusObservation{
			StoreID:      storeID,
			TimestampUTC: ts,
			Status:       status,
		})
	}

	if stats.Dropped > 0 {
		logger.Warn("dropped unparsable store_status rows",
			zap.Int("dropped", stats.Dropped), zap.Int("total", stats.Total))
	}
	return obs, stats, nil
}

// ParseBusinessHours reads business_hours.csv
// (columns: store_id, day, start_time_local, end_time_local; day 0=Monday).
func ParseBusinessHours(r io.Reader, logger *zap.Logger) ([]domain.BusinessHoursRule, ParseStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("read business_hours header: %w", err)
	}
	cols, err := header(head, "store_id", "day", "start_time_local", "end_time_local")
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("business_hours: %w", err)
	}

	var rules []domain.BusinessHoursRule
	var stats ParseStats
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read business_hours row: %w", err)
		}
		stats.Total++

		storeID, err := strconv.ParseInt(strings.TrimSpace(rec[cols["store_id"]]), 10, 64)
		if err != nil {
			stats.Dropped++
			continue
		}
		weekday, err := strconv.Atoi(strings.TrimSpace(rec[cols["day"]]))
		if err != nil || weekday < 0 || weekday > 6 {
			stats.Dropped++
			continue
		}
		start, err := domain.ParseDayTime(strings.TrimSpace(rec[cols["start_time_local"]]))
		if err != nil {
			stats.Dropped++
			continue
		}
		end, err := domain.ParseDayTime(strings.TrimSpace(rec[cols["end_time_local"]]))
		if err != nil {
			stats.Dropped++
			continue
		}
		rules = append(rules, domain.BusinessHoursRule{
			StoreID:    storeID,
			Weekday:    weekday,
			StartLocal: start,
			EndLocal:   end,
		})
	}

	if stats.Dropped > 0 {
		logger.Warn("dropped unparsable business_hours rows",
			zap.Int("dropped", stats.Dropped), zap.Int("total", stats.Total))
	}
	return rules, stats, nil
}

// ParseStores reads timezones.csv (columns: store_id, timezone_str).
func ParseStores(r io.Reader, logger *zap.Logger) ([]domain.Store, ParseStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("read timezones header: %w", err)
	}
	cols, err := header(head, "store_id", "timezone_str")
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("timezones: %w", err)
	}

	var stores []domain.Store
	var stats ParseStats
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read timezones row: %w", err)
		}
		stats.Total++

		storeID, err := strconv.ParseInt(strings.TrimSpace(rec[cols["store_id"]]), 10, 64)
		if err != nil {
			stats.Dropped++
			continue
		}
		stores = append(stores, domain.Store{
			ID:       storeID,
			Timezone: strings.TrimSpace(rec[cols["timezone_str"]]),
		})
	}

	if stats.Dropped > 0 {
		logger.Warn("dropped unparsable timezone rows",
			zap.Int("dropped", stats.Dropped), zap.Int("total", stats.Total))
	}
	return stores, stats, nil
}
