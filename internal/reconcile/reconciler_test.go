package reconcile

import (
	"math/rand"
	"testing"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func pred(t *testing.T, source fertility.Source, start, end string, confidence int) fertility.Prediction {
	t.Helper()
	return fertility.Prediction{
		ID:           fertility.NewID(),
		Source:       source,
		FertileStart: date(t, start),
		FertileEnd:   date(t, end),
		Confidence:   confidence,
	}
}

func TestReconcileSinglePrediction(t *testing.T) {
	p := pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70)
	result, ok := Reconcile(Request{Predictions: []fertility.Prediction{p}, Options: DefaultOptions()})
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Diagnostics.InputPredictions != 1 {
		t.Errorf("InputPredictions = %d, want 1", result.Diagnostics.InputPredictions)
	}
	if result.Diagnostics.SourceAgreement != 1 {
		t.Errorf("SourceAgreement = %v, want 1", result.Diagnostics.SourceAgreement)
	}
}

func TestReconcileIdenticalPredictionsAgreeFully(t *testing.T) {
	preds := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceClue, "2025-02-10", "2025-02-15", 70),
	}
	result, ok := Reconcile(Request{Predictions: preds, Options: DefaultOptions()})
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Diagnostics.SourceAgreement != 1 {
		t.Errorf("SourceAgreement = %v, want 1", result.Diagnostics.SourceAgreement)
	}
	if result.Confidence < 0.8 {
		t.Errorf("Confidence = %v, want >= 0.8", result.Confidence)
	}
}

func TestReconcilePermutationInvariance(t *testing.T) {
	base := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-01", "2025-02-06", 60),
		pred(t, fertility.SourceClue, "2025-02-12", "2025-02-17", 65),
	}
	permuted := []fertility.Prediction{base[2], base[0], base[1]}

	r1, ok1 := Reconcile(Request{Predictions: base, Options: DefaultOptions()})
	r2, ok2 := Reconcile(Request{Predictions: permuted, Options: DefaultOptions()})
	if !ok1 || !ok2 {
		t.Fatal("expected both reconciliations to succeed")
	}
	if !r1.FertileStart.Equal(r2.FertileStart) || !r1.FertileEnd.Equal(r2.FertileEnd) {
		t.Errorf("windows differ: %v/%v vs %v/%v", r1.FertileStart, r1.FertileEnd, r2.FertileStart, r2.FertileEnd)
	}
	if r1.Confidence != r2.Confidence {
		t.Errorf("confidence differs: %v vs %v", r1.Confidence, r2.Confidence)
	}
	if len(r1.Diagnostics.Outliers) != len(r2.Diagnostics.Outliers) {
		t.Errorf("outlier counts differ: %v vs %v", r1.Diagnostics.Outliers, r2.Diagnostics.Outliers)
	}
}

func TestReconcileAddingOutlierNeverIncreasesConfidence(t *testing.T) {
	base := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-10", "2025-02-15", 65),
	}
	withOutlier := append(append([]fertility.Prediction{}, base...),
		pred(t, fertility.SourceCalendar, "2025-01-01", "2025-01-06", 70))

	r1, ok1 := Reconcile(Request{Predictions: base, Options: DefaultOptions()})
	r2, ok2 := Reconcile(Request{Predictions: withOutlier, Options: DefaultOptions()})
	if !ok1 || !ok2 {
		t.Fatal("expected both reconciliations to succeed")
	}
	if r2.Confidence > r1.Confidence {
		t.Errorf("adding an outlier increased confidence: %v -> %v", r1.Confidence, r2.Confidence)
	}
}

func TestReconcileConfidenceAlwaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sources := []fertility.Source{fertility.SourceManual, fertility.SourceFlo, fertility.SourceClue, fertility.SourceCalendar, fertility.SourceOvia, fertility.SourceNaturalCycles}
	base := date(t, "2025-01-01")
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(6)
		var preds []fertility.Prediction
		for i := 0; i < n; i++ {
			startOffset := rng.Intn(40)
			span := 3 + rng.Intn(7)
			start := dateutil.AddDays(base, startOffset)
			end := dateutil.AddDays(start, span)
			preds = append(preds, fertility.Prediction{
				ID:           fertility.NewID(),
				Source:       sources[i%len(sources)],
				FertileStart: start,
				FertileEnd:   end,
				Confidence:   40 + rng.Intn(60),
			})
		}
		result, ok := Reconcile(Request{Predictions: preds, Options: DefaultOptions()})
		if !ok {
			continue
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Fatalf("trial %d: confidence out of range: %v", trial, result.Confidence)
		}
	}
}

func TestReconcileMinSourcesEquivalence(t *testing.T) {
	preds := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-10", "2025-02-15", 65),
	}
	optsK := DefaultOptions()
	optsK.MinSources = len(preds)
	opts1 := DefaultOptions()
	opts1.MinSources = 1

	rk, okk := Reconcile(Request{Predictions: preds, Options: optsK})
	r1, ok1 := Reconcile(Request{Predictions: preds, Options: opts1})
	if !okk || !ok1 {
		t.Fatal("expected both to succeed")
	}
	if rk.Confidence != r1.Confidence || !rk.FertileStart.Equal(r1.FertileStart) {
		t.Error("minSources=k result should match minSources=1 result on an input of exactly k admitted predictions")
	}
}

func TestReconcileScenarioPerfectAgreement(t *testing.T) {
	preds := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-10", "2025-02-15", 75),
		pred(t, fertility.SourceClue, "2025-02-10", "2025-02-15", 65),
	}
	result, ok := Reconcile(Request{Predictions: preds, Options: DefaultOptions()})
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Diagnostics.SourceAgreement < 0.9 {
		t.Errorf("agreement = %v, want >= 0.9", result.Diagnostics.SourceAgreement)
	}
	if result.Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7", result.Confidence)
	}
	if len(result.Diagnostics.Outliers) != 0 {
		t.Errorf("outliers = %v, want none", result.Diagnostics.Outliers)
	}
	lo := date(t, "2025-02-08")
	hi := date(t, "2025-02-17")
	if dateutil.Before(result.FertileStart, lo) || dateutil.After(result.FertileEnd, hi) {
		t.Errorf("window %s..%s outside expected fuzz range", dateutil.Format(result.FertileStart), dateutil.Format(result.FertileEnd))
	}
}

func TestReconcileScenarioOneFarOutlier(t *testing.T) {
	agreeing := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceFlo, "2025-02-10", "2025-02-15", 70),
		pred(t, fertility.SourceClue, "2025-02-10", "2025-02-15", 70),
	}
	withOutlier := append(append([]fertility.Prediction{}, agreeing...),
		pred(t, fertility.SourceManual, "2025-02-01", "2025-02-06", 70))

	clean, okc := Reconcile(Request{Predictions: agreeing, Options: DefaultOptions()})
	withOut, oko := Reconcile(Request{Predictions: withOutlier, Options: DefaultOptions()})
	if !okc || !oko {
		t.Fatal("expected both to succeed")
	}

	found := false
	for _, s := range withOut.Diagnostics.Outliers {
		if s == fertility.SourceManual {
			found = true
		}
	}
	if !found {
		t.Errorf("expected manual source reported as outlier, got %v", withOut.Diagnostics.Outliers)
	}
	if withOut.Confidence >= clean.Confidence {
		t.Errorf("confidence with outlier (%v) should be lower than without (%v)", withOut.Confidence, clean.Confidence)
	}
}

func TestReconcileScenarioDisjointDisagreement(t *testing.T) {
	preds := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-05", "2025-02-10", 70),
		pred(t, fertility.SourceFlo, "2025-02-12", "2025-02-17", 70),
	}
	result, ok := Reconcile(Request{Predictions: preds, Options: DefaultOptions()})
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Diagnostics.SourceAgreement >= 0.5 {
		t.Errorf("agreement = %v, want < 0.5", result.Diagnostics.SourceAgreement)
	}
	if result.Confidence >= 0.5 {
		t.Errorf("confidence = %v, want < 0.5", result.Confidence)
	}
}

func TestReconcileScenarioFallback(t *testing.T) {
	preds := []fertility.Prediction{
		pred(t, fertility.SourceManual, "2025-02-01", "2025-02-05", 70),
		pred(t, fertility.SourceNaturalCycles, "2025-02-20", "2025-02-25", 70),
	}
	opts := DefaultOptions()
	opts.MinConfidenceThreshold = 0.99
	result, ok := Reconcile(Request{Predictions: preds, Options: opts})
	if !ok {
		t.Fatal("expected a fallback result")
	}
	if !result.FertileStart.Equal(date(t, "2025-02-20")) {
		t.Errorf("FertileStart = %s, want the higher-weight (natural-cycles) source's window verbatim", dateutil.Format(result.FertileStart))
	}
	want := "Low confidence"
	if len(result.Explanations) == 0 || len(result.Explanations[0]) < len(want) || result.Explanations[0][:len(want)] != want {
		t.Errorf("explanation should begin with %q, got %v", want, result.Explanations)
	}
}
