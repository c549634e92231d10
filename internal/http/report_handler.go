package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/artifact"
	"github.com/dev265545/store-monitor/internal/domain"
	"github.com/dev265545/store-monitor/internal/repository"
	"github.com/dev265545/store-monitor/internal/service"
)

// ReportHandler serves the trigger / poll / download endpoints.
type ReportHandler struct {
	svc    *service.ReportService
	logger *zap.Logger
}

func NewReportHandler(svc *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// TriggerReport starts a new report run and returns its identifier
// immediately; the pipeline proceeds in the background.
func (h *ReportHandler) TriggerReport(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Trigger(r.Context())
	if err != nil {
		h.logger.Error("trigger report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to trigger report")
		return
	}
	writeJSON(w, http.StatusAccepted, TriggerResponse{ReportID: id})
}

// GetReport answers a status poll.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request, id string) {
	report, err := h.svc.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		h.logger.Error("report status lookup failed",
			zap.String("report_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to look up report")
		return
	}

	resp := StatusResponse{Status: string(report.Status)}
	switch report.Status {
	case domain.ReportComplete:
		resp.ReportURL = fmt.Sprintf("/api/v1/reports/%s/download", report.ID)
	case domain.ReportFailed:
		resp.Error = report.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadReport streams the finished artifact. The default format is the
// CSV file itself; ?format=xlsx converts it to a spreadsheet.
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request, id string) {
	switch r.URL.Query().Get("format") {
	case "", "csv":
		h.downloadCSV(w, r, id)
	case "xlsx":
		h.downloadExcel(w, r, id)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format")
	}
}

func (h *ReportHandler) downloadCSV(w http.ResponseWriter, r *http.Request, id string) {
	path, err := h.svc.ArtifactPath(r.Context(), id)
	if err != nil {
		h.writeDownloadError(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.csv"`, id))
	http.ServeFile(w, r, path)
}

func (h *ReportHandler) downloadExcel(w http.ResponseWriter, r *http.Request, id string) {
	rows, err := h.svc.Rows(r.Context(), id)
	if err != nil {
		h.writeDownloadError(w, id, err)
		return
	}
	data, err := GenerateReportExcel(rows)
	if err != nil {
		h.logger.Error("excel export failed", zap.String("report_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to export report")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.xlsx"`, id))
	_, _ = w.Write(data)
}

func (h *ReportHandler) writeDownloadError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, repository.ErrReportNotFound) || errors.Is(err, artifact.ErrArtifactNotFound) {
		writeError(w, http.StatusNotFound, "report not found or not ready")
		return
	}
	h.logger.Error("report download failed", zap.String("report_id", id), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to download report")
}
