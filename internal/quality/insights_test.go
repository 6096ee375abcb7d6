package quality

import (
	"testing"
	"time"

	"github.com/cycletrack/reconciler/internal/fertility"
)

func toCycles(fixtures ...cycleFixture) []fertility.Cycle {
	out := make([]fertility.Cycle, len(fixtures))
	for i, f := range fixtures {
		out[i] = fertility.Cycle{ID: f.id, StartDate: f.start, Length: f.length, PeriodLength: f.period}
	}
	return out
}

func cyc(id string, start string, length, period int) cycleFixture {
	d, _ := time.Parse("2006-01-02", start)
	return cycleFixture{id: id, start: d, length: length, period: period}
}

type cycleFixture struct {
	id     string
	start  time.Time
	length int
	period int
}

func TestComputeInsightsEmptyHistory(t *testing.T) {
	insights := ComputeInsights(nil, nil)
	if insights.CycleCount != 0 {
		t.Fatalf("expected zero cycle count, got %d", insights.CycleCount)
	}
}

func TestComputeInsightsFlagsShortAndLongCycles(t *testing.T) {
	cycles := toCycles(
		cyc("c1", "2026-01-01", 28, 5),
		cyc("c2", "2026-01-29", 18, 5),
		cyc("c3", "2026-02-16", 40, 5),
	)
	insights := ComputeInsights(cycles, nil)

	var short, long bool
	for _, a := range insights.Anomalies {
		if a.CycleID == "c2" && a.Kind == AnomalyShortCycle {
			short = true
		}
		if a.CycleID == "c3" && a.Kind == AnomalyLongCycle {
			long = true
		}
	}
	if !short {
		t.Error("expected c2 flagged as short-cycle")
	}
	if !long {
		t.Error("expected c3 flagged as long-cycle")
	}
}

func TestComputeInsightsFlagsLongPeriod(t *testing.T) {
	cycles := toCycles(cyc("c1", "2026-01-01", 28, 9))
	insights := ComputeInsights(cycles, nil)

	found := false
	for _, a := range insights.Anomalies {
		if a.Kind == AnomalyLongPeriod {
			found = true
		}
	}
	if !found {
		t.Error("expected long-period anomaly")
	}
}

func TestComputeInsightsDriftDetectsLengthening(t *testing.T) {
	cycles := toCycles(
		cyc("c1", "2026-01-01", 26, 5),
		cyc("c2", "2026-01-27", 27, 5),
		cyc("c3", "2026-02-23", 33, 5),
		cyc("c4", "2026-03-28", 34, 5),
	)
	insights := ComputeInsights(cycles, nil)
	if insights.Drift <= 0 {
		t.Errorf("expected positive drift for lengthening cycles, got %f", insights.Drift)
	}
}

func TestComputeInsightsRegularHistoryHasNoZScoreAnomaly(t *testing.T) {
	cycles := toCycles(
		cyc("c1", "2026-01-01", 28, 5),
		cyc("c2", "2026-01-29", 29, 5),
		cyc("c3", "2026-02-27", 27, 5),
		cyc("c4", "2026-03-26", 28, 5),
	)
	insights := ComputeInsights(cycles, nil)
	for _, a := range insights.Anomalies {
		if a.Kind == AnomalyZScore {
			t.Errorf("unexpected z-score anomaly in regular history: %+v", a)
		}
	}
}
