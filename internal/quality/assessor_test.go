package quality

import (
	"testing"

	"github.com/cycletrack/reconciler/internal/fertility"
)

func TestAssessBaselineIsFair(t *testing.T) {
	a := Assess(Request{CurrentCycleStart: "2025-02-01"})
	if a.Score != 45 {
		t.Errorf("Score = %d, want 45 (50 base - 5 for < 3 cycles)", a.Score)
	}
	if a.Band != BandFair {
		t.Errorf("Band = %s, want fair", a.Band)
	}
}

func TestAssessRichHistoryIsExcellent(t *testing.T) {
	var cycles []fertility.Cycle
	for i := 0; i < 6; i++ {
		cycles = append(cycles, fertility.Cycle{Length: 28, PeriodLength: 5})
	}
	var observations []fertility.Observation
	for i := 0; i < 8; i++ {
		observations = append(observations, fertility.Observation{Kind: fertility.KindCervicalMucus})
	}
	observations = append(observations, fertility.Observation{Kind: fertility.KindOPK})

	a := Assess(Request{
		CurrentCycleStart: "2025-02-01",
		HistoricalCycles:  cycles,
		Observations:      observations,
		ExternalPredictions: []fertility.Prediction{
			{Source: fertility.SourceFlo},
			{Source: fertility.SourceClue},
		},
	})
	// 50 + 15 (>=6 cycles) + 10 (stddev 0) + 20 (OPK) + 10 (>=7 CM) + 10 (2 sources * 5) = 115 -> clamped 100
	if a.Score != 100 {
		t.Errorf("Score = %d, want 100 (clamped)", a.Score)
	}
	if a.Band != BandExcellent {
		t.Errorf("Band = %s, want excellent", a.Band)
	}
}

func TestAssessIrregularCyclesPenalized(t *testing.T) {
	cycles := []fertility.Cycle{
		{Length: 22, PeriodLength: 5},
		{Length: 34, PeriodLength: 5},
		{Length: 24, PeriodLength: 5},
	}
	a := Assess(Request{CurrentCycleStart: "2025-02-01", HistoricalCycles: cycles})
	found := false
	for _, f := range a.Factors {
		if f.Name == "cycle regularity" && f.Impact == ImpactNegative {
			found = true
		}
	}
	if !found {
		t.Error("expected a negative cycle-regularity factor for highly variable cycle lengths")
	}
}

func TestAssessExternalPredictionsCapAtThreeSources(t *testing.T) {
	a := Assess(Request{
		ExternalPredictions: []fertility.Prediction{
			{Source: fertility.SourceFlo},
			{Source: fertility.SourceClue},
			{Source: fertility.SourceOvia},
			{Source: fertility.SourceManual},
		},
	})
	// 50 - 5 (< 3 cycles) + 15 (min(4,3) sources * 5) = 60
	if a.Score != 60 {
		t.Errorf("Score = %d, want 60 (50 - 5 + 15)", a.Score)
	}
}
