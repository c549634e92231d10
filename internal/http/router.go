package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterReportRoutes wires the report trigger/poll/download endpoints.
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/api/v1/reports/trigger", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.TriggerReport(w, req)
	})

	// /api/v1/reports/{id} and /api/v1/reports/{id}/download
	r.Handle("/api/v1/reports/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/reports/")
		switch {
		case rest == "":
			w.WriteHeader(http.StatusNotFound)
		case !strings.Contains(rest, "/"):
			h.GetReport(w, req, rest)
		case strings.HasSuffix(rest, "/download"):
			id := strings.TrimSuffix(rest, "/download")
			if id == "" || strings.Contains(id, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.DownloadReport(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}
