package api

import (
	"log/slog"
	"net/http"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/store"
	"github.com/cycletrack/reconciler/pkg/config"
)

// Server wires the three HTTP operations over a shared store and
// source-weight table, passing collaborators in through a constructor
// rather than reaching for package-level globals.
type Server struct {
	cfg     *config.Config
	store   store.Store
	weights fertility.SourceWeights
	logger  *slog.Logger
}

// NewServer builds a Server ready to be mounted with Handler().
func NewServer(cfg *config.Config, s store.Store, weights fertility.SourceWeights, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, store: s, weights: weights, logger: logger}
}

// Handler returns the mux for the three HTTP operations, each wrapped in
// the shared CORS/shared-secret middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/reconcile", withMiddleware(s.cfg, s.logger, s.handleReconcile))
	mux.HandleFunc("/v1/csv-import", withMiddleware(s.cfg, s.logger, s.handleCSVImport))
	mux.HandleFunc("/v1/quality/insights", withMiddleware(s.cfg, s.logger, s.handleInsights))
	return mux
}
