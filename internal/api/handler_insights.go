package api

import (
	"encoding/json"
	"net/http"

	"github.com/cycletrack/reconciler/internal/quality"
)

// handleInsights grades the regularity, drift, and anomaly signal in a
// cycle/observation history. An empty body falls back to
// the full stored history, so a client can ask "how am I doing?" without
// re-submitting everything it already sent to other endpoints.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, s.logger, reqID, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	var body insightsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, s.logger, reqID, http.StatusBadRequest, err)
			return
		}
	}

	cycles, err := toCycles(body.Cycles)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}
	observations, err := toObservations(body.Observations)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}

	if len(cycles) == 0 {
		cycles, err = s.store.Cycles().List(ctx)
		if err != nil {
			writeError(w, s.logger, reqID, http.StatusInternalServerError, err)
			return
		}
	}
	if len(observations) == 0 {
		observations, err = s.store.Observations().List(ctx)
		if err != nil {
			writeError(w, s.logger, reqID, http.StatusInternalServerError, err)
			return
		}
	}

	writeJSON(w, s.logger, http.StatusOK, quality.ComputeInsights(cycles, observations))
}
