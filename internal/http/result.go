package httpapi

import (
	"encoding/json"
	"net/http"
)

// TriggerResponse matches the trigger endpoint contract.
type TriggerResponse struct {
	ReportID string `json:"report_id"`
}

// StatusResponse matches the poll endpoint contract. ReportURL is set only
// once the report is Complete; Error only when it is Failed.
type StatusResponse struct {
	Status    string `json:"status"`
	ReportURL string `json:"report_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}
