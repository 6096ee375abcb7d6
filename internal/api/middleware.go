package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cycletrack/reconciler/pkg/config"
)

var errUnauthorized = errors.New("missing or invalid shared secret")

// withMiddleware wraps a handler with CORS preflight handling and, when
// configured, shared-secret admission. When no shared secret is
// configured, every request is admitted.
func withMiddleware(cfg *config.Config, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyCORSHeaders(w, r, cfg.AllowedOrigins)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if cfg.SharedSecret != "" {
			if r.Header.Get(cfg.SharedSecretHeader) != cfg.SharedSecret {
				writeError(w, logger, requestID(r), http.StatusUnauthorized, errUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

// applyCORSHeaders sets the response headers needed for both the
// preflight OPTIONS request and the real request that follows it.
func applyCORSHeaders(w http.ResponseWriter, r *http.Request, allowedOrigins []string) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	if originAllowed(origin, allowedOrigins) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id, X-Api-Secret")
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
