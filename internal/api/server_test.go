package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/store/memstore"
	"github.com/cycletrack/reconciler/pkg/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.NewConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, memstore.New(), fertility.DefaultSourceWeights(), logger)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleReconcileBaselineNoHistory(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/reconcile", reconcileRequest{
		CurrentCycleStart: "2026-02-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reconcileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Prediction.FertileStart)
	require.Equal(t, 45, resp.Quality.Score)
}

func TestHandleReconcileRejectsMissingCurrentCycleStart(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/reconcile", reconcileRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReconcilePersistsSubmittedHistory(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/reconcile", reconcileRequest{
		CurrentCycleStart: "2026-02-01",
		HistoricalCycles: []cyclePayload{
			{StartDate: "2026-01-01", Length: 28, PeriodLength: 5},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := s.store.Cycles().List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 28, stored[0].Length)
}

func TestHandleCSVImportNormalizesAndInfersCycles(t *testing.T) {
	s := testServer(t)
	csv := "Date,Temp,CM,OPK\n" +
		"2026-01-01,97.1,sticky,negative\n" +
		"2026-01-14,97.6,egg-white,positive\n"

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/csv-import", csvImportRequest{CSV: csv})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp csvImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Observations)
}

func TestHandleCSVImportMissingDateColumnReturnsFailure(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/csv-import", csvImportRequest{CSV: "Temp,CM\n97.1,dry\n"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp csvImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
}

func TestHandleInsightsAcceptsSubmittedCycles(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/quality/insights", insightsRequest{
		Cycles: []cyclePayload{
			{StartDate: "2026-01-01", Length: 28, PeriodLength: 5},
			{StartDate: "2026-01-29", Length: 29, PeriodLength: 5},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPreflightRequestIsAdmittedWithoutSecret(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/reconcile", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSharedSecretRejectsMissingHeader(t *testing.T) {
	s := testServer(t)
	s.cfg.SharedSecret = "topsecret"
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/reconcile", reconcileRequest{CurrentCycleStart: "2026-02-01"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSharedSecretAdmitsMatchingHeader(t *testing.T) {
	s := testServer(t)
	s.cfg.SharedSecret = "topsecret"

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(reconcileRequest{CurrentCycleStart: "2026-02-01"}))
	req := httptest.NewRequest(http.MethodPost, "/v1/reconcile", &buf)
	req.Header.Set("X-Api-Secret", "topsecret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
