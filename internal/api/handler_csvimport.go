package api

import (
	"encoding/json"
	"net/http"

	"github.com/cycletrack/reconciler/internal/csvimport"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// csvImportResponse is the body returned by POST /v1/csv-import: the
// normalized observation stream, the cycles inferred from its date gaps,
// and the row-scoped errors/warnings the normalizer collected along the
// way.
type csvImportResponse struct {
	Success      bool                    `json:"success"`
	Observations []fertility.Observation `json:"observations"`
	Cycles       []fertility.Cycle       `json:"cycles"`
	Errors       []csvimport.RowIssue    `json:"errors"`
	Warnings     []csvimport.RowIssue    `json:"warnings"`
}

// handleCSVImport normalizes raw CSV text into observations, then infers
// cycles from the resulting date gaps. Malformed JSON fails the HTTP
// request outright; a missing date column or other row-level problem is
// surfaced as success=false inside a 200 body, matching the CSV layer's
// own success/errors contract.
func (s *Server) handleCSVImport(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeError(w, s.logger, reqID, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	var body csvImportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, s.logger, reqID, http.StatusBadRequest, err)
		return
	}

	result := csvimport.Normalize(body.CSV)
	var cycles []fertility.Cycle
	if result.Success {
		cycles = csvimport.InferCycles(result.Observations)
		s.persistHistory(ctx, cycles, result.Observations)
	}

	writeJSON(w, s.logger, http.StatusOK, csvImportResponse{
		Success:      result.Success,
		Observations: result.Observations,
		Cycles:       cycles,
		Errors:       result.Errors,
		Warnings:     result.Warnings,
	})
}
