// Package api exposes the fertile-window reconciliation pipeline as a
// small JSON HTTP API: one endpoint reconciles predictions and grades
// input quality, one normalizes CSV and infers cycles, one emits
// data-quality insights over history.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// errorResponse is the structured JSON body written for every input-shape
// or internal failure: a request id for correlation plus a plain message,
// built with plain net/http + log/slog rather than a handler framework.
type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a structured error body and logs it with the request
// id for correlation, so that an input-shape failure in the HTTP layer
// surfaces as a client-error response rather than a bare 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, reqID string, status int, err error) {
	logger.Error("request failed", "request_id", reqID, "status", status, "error", err.Error())
	writeJSON(w, logger, status, errorResponse{RequestID: reqID, Error: err.Error()})
}

// requestID returns the id from the X-Request-Id header, or mints a new
// one when absent.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}
