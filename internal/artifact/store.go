package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/domain"
)

// ErrArtifactNotFound 报告文件不存在
var ErrArtifactNotFound = errors.New("report artifact not found")

// Header is the exact column order of the report artifact.
var Header = []string{
	"store_id",
	"uptime_last_hour",
	"downtime_last_hour",
	"uptime_last_day",
	"downtime_last_day",
	"uptime_last_week",
	"downtime_last_week",
}

// Store writes and reads report artifacts as <dir>/<report-id>.csv.
type Store struct {
	dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Path returns the on-disk location of a report artifact.
func (s *Store) Path(reportID string) string {
	return filepath.Join(s.dir, reportID+".csv")
}

// WriteCSV serializes the rows and returns the artifact path.
func (s *Store) WriteCSV(reportID string, rows []domain.ReportRow) (string, error) {
	if strings.ContainsAny(reportID, `/\`) {
		return "", fmt.Errorf("invalid report id %q", reportID)
	}

	path := s.Path(reportID)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("write artifact header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.StoreID, 10),
			formatFloat(row.UptimeLastHour),
			formatFloat(row.DowntimeLastHour),
			formatFloat(row.UptimeLastDay),
			formatFloat(row.DowntimeLastDay),
			formatFloat(row.UptimeLastWeek),
			formatFloat(row.DowntimeLastWeek),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write artifact row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush artifact: %w", err)
	}

	s.logger.Info("report artifact written",
		zap.String("report_id", reportID),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return path, nil
}

// ReadCSV parses an artifact back into rows (used by the XLSX export path).
func (s *Store) ReadCSV(reportID string) ([]domain.ReportRow, error) {
	f, err := os.Open(s.Path(reportID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]domain.ReportRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(Header) {
			return nil, fmt.Errorf("artifact row has %d columns, want %d", len(rec), len(Header))
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (domain.ReportRow, error) {
	var row domain.ReportRow
	var err error
	if row.StoreID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
		return row, fmt.Errorf("parse store_id %q: %w", rec[0], err)
	}
	fields := []*float64{
		&row.UptimeLastHour, &row.DowntimeLastHour,
		&row.UptimeLastDay, &row.DowntimeLastDay,
		&row.UptimeLastWeek, &row.DowntimeLastWeek,
	}
	for i, dst := range fields {
		if *dst, err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return row, fmt.Errorf("parse %s %q: %w", Header[i+1], rec[i+1], err)
		}
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
