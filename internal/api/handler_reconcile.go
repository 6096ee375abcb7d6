package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/predict/calendar"
	"github.com/cycletrack/reconciler/internal/predict/symptom"
	"github.com/cycletrack/reconciler/internal/quality"
	"github.com/cycletrack/reconciler/internal/reconcile"
)

// reconcileResponse is the body returned by POST /v1/reconcile: a unified
// fertile-window prediction plus the quality grade of the inputs that
// produced it.
type reconcileResponse struct {
	Prediction fertility.ReconciledPrediction `json:"prediction"`
	Quality    quality.Assessment             `json:"quality"`
}

// handleReconcile seeds the calendar and symptom predictors from the request's cycle
// start and observation stream, folds in any externally supplied
// predictions, reconciles all of them into one window, and grades the
// inputs with the quality assessor. Supplied cycles and observations are
// upserted into the configured store so later requests accumulate history.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, s.logger, reqID, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	var body reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, fmt.Errorf("malformed JSON body: %w", err))
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}

	start, err := dateutil.Parse(body.CurrentCycleStart)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}

	cycles, err := toCycles(body.HistoricalCycles)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}
	observations, err := toObservations(body.Observations)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}
	externalPredictions, err := toPredictions(body.ExternalPredictions)
	if err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}

	s.persistHistory(ctx, cycles, observations)

	predictions := append([]fertility.Prediction{}, externalPredictions...)
	predictions = append(predictions, calendar.Predict(start, cycles, calendar.DefaultOptions()))
	if p, ok := symptom.Predict(observations, symptom.DefaultOptions()); ok {
		predictions = append(predictions, p)
	}

	reconciled, ok := reconcile.Reconcile(reconcile.Request{
		Predictions: predictions,
		Weights:     s.weights,
		Options:     reconcile.DefaultOptions(),
	})
	if !ok {
		writeError(w, s.logger, reqID, http.StatusUnprocessableEntity, errNoAdmissiblePredictions)
		return
	}

	assessment := quality.Assess(quality.Request{
		CurrentCycleStart:   body.CurrentCycleStart,
		HistoricalCycles:    cycles,
		Observations:        observations,
		ExternalPredictions: externalPredictions,
	})

	writeJSON(w, s.logger, http.StatusOK, reconcileResponse{Prediction: reconciled, Quality: assessment})
}

// persistHistory upserts submitted cycles and observations into the
// configured store, best-effort: a store failure is logged but never
// fails the request, keeping the pure decision functions free of
// out-of-band failures from ambient concerns like persistence.
func (s *Server) persistHistory(ctx context.Context, cycles []fertility.Cycle, observations []fertility.Observation) {
	for _, c := range cycles {
		if err := s.store.Cycles().Upsert(ctx, c); err != nil {
			s.logger.Warn("failed to persist cycle", "cycle_id", c.ID, "error", err)
		}
	}
	for _, o := range observations {
		if err := s.store.Observations().Upsert(ctx, o); err != nil {
			s.logger.Warn("failed to persist observation", "observation_id", o.ID, "error", err)
		}
	}
}
