package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/artifact"
	"github.com/dev265545/store-monitor/internal/domain"
	"github.com/dev265545/store-monitor/internal/engine"
	"github.com/dev265545/store-monitor/internal/repository"
	"github.com/dev265545/store-monitor/internal/service"
)

type handlerFixture struct {
	snapshots *repository.MemorySnapshotRepo
	reports   *repository.MemoryReportsRepo
	svc       *service.ReportService
	router    *Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	artifacts, err := artifact.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	f := &handlerFixture{
		snapshots: repository.NewMemorySnapshotRepo(),
		reports:   repository.NewMemoryReportsRepo(),
	}
	eng := engine.NewEngine(nil, engine.ReferenceGlobalMax, zap.NewNop())
	f.svc = service.NewReportService(
		f.snapshots, f.reports, artifacts, eng, nil, 0, zap.NewNop())

	f.router = NewRouter(zap.NewNop())
	f.router.RegisterReportRoutes(NewReportHandler(f.svc, zap.NewNop()))
	return f
}

// completedReport seeds one store's observations and runs a report to
// completion synchronously.
func (f *handlerFixture) completedReport(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2023, 1, 25, 10, 0, 0, 0, time.UTC)

	require.NoError(t, f.snapshots.BulkInsertObservations(ctx, []domain.StatusObservation{
		{StoreID: 1, TimestampUTC: base, Status: domain.StatusActive},
		{StoreID: 1, TimestampUTC: base.Add(30 * time.Minute), Status: domain.StatusActive},
	}))

	id := "11111111-2222-3333-4444-555555555555"
	require.NoError(t, f.reports.CreateReport(ctx, domain.Report{
		ID: id, Status: domain.ReportRunning, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, f.svc.Generate(ctx, id))
	return id
}

func TestTriggerReport(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/trigger", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReportID)
}

func TestTriggerReport_MethodNotAllowed(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/trigger", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGetReport_Running(t *testing.T) {
	f := newHandlerFixture(t)
	id := "run-1"
	require.NoError(t, f.reports.CreateReport(context.Background(), domain.Report{
		ID: id, Status: domain.ReportRunning, CreatedAt: time.Now().UTC(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Running", resp.Status)
	assert.Empty(t, resp.ReportURL)
}

func TestGetReport_CompleteCarriesDownloadURL(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.completedReport(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Complete", resp.Status)
	assert.Equal(t, "/api/v1/reports/"+id+"/download", resp.ReportURL)
}

func TestGetReport_Failed(t *testing.T) {
	f := newHandlerFixture(t)
	id := "fail-1"
	ctx := context.Background()
	require.NoError(t, f.reports.CreateReport(ctx, domain.Report{
		ID: id, Status: domain.ReportRunning, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, f.reports.MarkFailed(ctx, id, "snapshot contains no observations", time.Now().UTC()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed", resp.Status)
	assert.Contains(t, resp.Error, "no observations")
}

func TestGetReport_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadReport_CSV(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.completedReport(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id+"/download", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "store_id,uptime_last_hour"))
	assert.Contains(t, body, "\n1,")
}

func TestDownloadReport_XLSX(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.completedReport(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id+"/download?format=xlsx", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	book, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Uptime Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "store_id", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
}

func TestDownloadReport_NotReady(t *testing.T) {
	f := newHandlerFixture(t)
	id := "run-2"
	require.NoError(t, f.reports.CreateReport(context.Background(), domain.Report{
		ID: id, Status: domain.ReportRunning, CreatedAt: time.Now().UTC(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id+"/download", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadReport_BadFormat(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.completedReport(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id+"/download?format=pdf", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
