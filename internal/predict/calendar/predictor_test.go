package calendar

import (
	"testing"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestPredictBaselineEmptyHistory(t *testing.T) {
	start := mustParse(t, "2025-02-01")
	p := Predict(start, nil, DefaultOptions())

	if got := dateutil.Format(p.FertileStart); got != "2025-02-10" {
		t.Errorf("FertileStart = %s, want 2025-02-10", got)
	}
	if got := dateutil.Format(p.FertileEnd); got != "2025-02-16" {
		t.Errorf("FertileEnd = %s, want 2025-02-16", got)
	}
	if got := dateutil.Format(*p.OvulationDate); got != "2025-02-15" {
		t.Errorf("OvulationDate = %s, want 2025-02-15", got)
	}
	if p.Confidence != 55 {
		t.Errorf("Confidence = %d, want 55", p.Confidence)
	}
	if p.Source != fertility.SourceManual {
		t.Errorf("Source = %s, want manual", p.Source)
	}
}

func TestPredictRegularHistoryBoostsConfidence(t *testing.T) {
	start := mustParse(t, "2025-02-01")
	history := make([]fertility.Cycle, 6)
	for i := range history {
		history[i] = fertility.Cycle{Length: 28, PeriodLength: 5}
	}
	p := Predict(start, history, DefaultOptions())
	// >=6 cycles: +10; stddev 0 (<=2): +10 => 55+10+10=75
	if p.Confidence != 75 {
		t.Errorf("Confidence = %d, want 75", p.Confidence)
	}
}

func TestPredictHighVarianceLowersConfidence(t *testing.T) {
	start := mustParse(t, "2025-02-01")
	history := []fertility.Cycle{
		{Length: 21, PeriodLength: 4},
		{Length: 35, PeriodLength: 4},
		{Length: 21, PeriodLength: 4},
	}
	p := Predict(start, history, DefaultOptions())
	// 3 cycles: +5; stddev > 6: -15 => 55+5-15=45
	if p.Confidence != 45 {
		t.Errorf("Confidence = %d, want 45", p.Confidence)
	}
}

func TestConfidenceClampedToRange(t *testing.T) {
	start := mustParse(t, "2025-02-01")
	history := make([]fertility.Cycle, 8)
	for i := range history {
		history[i] = fertility.Cycle{Length: 28, PeriodLength: 5}
	}
	p := Predict(start, history, DefaultOptions())
	if p.Confidence < minConfidence || p.Confidence > maxConfidence {
		t.Errorf("Confidence %d out of range [%d,%d]", p.Confidence, minConfidence, maxConfidence)
	}
}

func TestMultiConfidenceMonotonicallyNonIncreasing(t *testing.T) {
	start := mustParse(t, "2025-02-01")
	history := []fertility.Cycle{{Length: 28, PeriodLength: 5}, {Length: 29, PeriodLength: 5}}
	predictions := Multi(start, history, 6, DefaultOptions())
	for i := 1; i < len(predictions); i++ {
		if predictions[i].Confidence > predictions[i-1].Confidence {
			t.Errorf("Multi()[%d].Confidence = %d > Multi()[%d].Confidence = %d",
				i, predictions[i].Confidence, i-1, predictions[i-1].Confidence)
		}
	}
}

func TestMultiSeedsAdvanceByAverageCycleLength(t *testing.T) {
	start := mustParse(t, "2025-01-01")
	predictions := Multi(start, nil, 3, DefaultOptions())
	if len(predictions) != 3 {
		t.Fatalf("len = %d, want 3", len(predictions))
	}
	// With empty history, average cycle length defaults to 28.
	wantGap := 28
	for i := 1; i < len(predictions); i++ {
		gap := dateutil.DaysBetween(predictions[i-1].FertileStart, predictions[i].FertileStart)
		if gap != wantGap {
			t.Errorf("gap between prediction %d and %d = %d, want %d", i-1, i, gap, wantGap)
		}
	}
}

func TestMultiConfidenceFloor(t *testing.T) {
	start := mustParse(t, "2025-01-01")
	predictions := Multi(start, nil, 10, DefaultOptions())
	for _, p := range predictions {
		if p.Confidence < minConfidence {
			t.Errorf("Confidence %d below floor %d", p.Confidence, minConfidence)
		}
	}
}
