package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cycletrack/reconciler/internal/store"
)

// Checker provides health check functionality for the API server.
type Checker struct {
	store  store.Store
	logger *slog.Logger
}

// NewChecker creates a new health checker over the given store. store may
// be nil, which is treated as "no persistence configured" rather than an
// error.
func NewChecker(s store.Store, logger *slog.Logger) *Checker {
	return &Checker{store: s, logger: logger}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of external dependencies.
type Services struct {
	Store string `json:"store"`
}

// HandlerFunc returns a minimal health check: 200 if the process is alive,
// without checking dependencies.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("failed to encode health response", "error", err)
		}
	}
}

// DetailedHandlerFunc returns a handler that pings the configured store.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{Store: "unknown"}
		status := "healthy"
		statusCode := http.StatusOK

		if h.store == nil {
			services.Store = "unconfigured"
		} else {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.store.Ping(ctx); err != nil {
				services.Store = "disconnected"
				status = "degraded"
				statusCode = http.StatusServiceUnavailable
			} else {
				services.Store = "connected"
			}
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("failed to encode health response", "error", err)
		}
	}
}
