package quality

import (
	"sort"

	"github.com/cycletrack/reconciler/internal/fertility"
)

const (
	shortCycleThresholdDays = 21
	longCycleThresholdDays  = 35
	longPeriodThresholdDays = 7
	anomalyZScoreThreshold  = 2.0
)

// AnomalyKind tags why a cycle was flagged.
type AnomalyKind string

const (
	AnomalyZScore      AnomalyKind = "z-score"
	AnomalyShortCycle  AnomalyKind = "short-cycle"
	AnomalyLongCycle   AnomalyKind = "long-cycle"
	AnomalyLongPeriod  AnomalyKind = "long-period"
)

// Anomaly flags a single historical cycle.
type Anomaly struct {
	CycleID string
	Kind    AnomalyKind
	Detail  string
}

// Insights is the data-quality-insights endpoint's output: a read of
// historical regularity, drift, and flagged cycles, independent of the
// pipeline-input Assessment above, which grades submitted inputs rather
// than the history itself.
type Insights struct {
	CycleCount      int
	MeanCycleLength float64
	StdDevLength    float64
	// Drift is the difference between the mean length of the most recent
	// half of cycles (by start date) and the mean length of the earlier
	// half; positive means cycles are lengthening over time.
	Drift     float64
	Anomalies []Anomaly
}

// ComputeInsights computes regularity, drift, and flagged anomalies over a
// user's historical cycles. Observations are accepted for parity with the
// endpoint's documented input shape; no observation-level anomalies are
// derived from them.
func ComputeInsights(cycles []fertility.Cycle, observations []fertility.Observation) Insights {
	if len(cycles) == 0 {
		return Insights{}
	}

	sorted := make([]fertility.Cycle, len(cycles))
	copy(sorted, cycles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartDate.Before(sorted[j].StartDate) })

	lengths := cycleLengths(sorted)
	mean := meanOf(lengths)
	dev := stdDev(lengths)

	return Insights{
		CycleCount:      len(sorted),
		MeanCycleLength: mean,
		StdDevLength:    dev,
		Drift:           driftOf(lengths),
		Anomalies:       anomaliesOf(sorted, mean, dev),
	}
}

// driftOf compares the mean length of the latter half of a chronologically
// sorted series against the earlier half.
func driftOf(lengths []float64) float64 {
	if len(lengths) < 2 {
		return 0
	}
	mid := len(lengths) / 2
	earlier := meanOf(lengths[:mid])
	later := meanOf(lengths[mid:])
	return later - earlier
}

func anomaliesOf(sorted []fertility.Cycle, mean, dev float64) []Anomaly {
	var out []Anomaly
	for _, c := range sorted {
		if dev > 0 {
			z := (float64(c.Length) - mean) / dev
			if z > anomalyZScoreThreshold || z < -anomalyZScoreThreshold {
				out = append(out, Anomaly{
					CycleID: c.ID,
					Kind:    AnomalyZScore,
					Detail:  "cycle length deviates more than two standard deviations from the mean",
				})
			}
		}
		if c.Length < shortCycleThresholdDays {
			out = append(out, Anomaly{
				CycleID: c.ID,
				Kind:    AnomalyShortCycle,
				Detail:  "cycle length is under 21 days",
			})
		}
		if c.Length > longCycleThresholdDays {
			out = append(out, Anomaly{
				CycleID: c.ID,
				Kind:    AnomalyLongCycle,
				Detail:  "cycle length exceeds 35 days",
			})
		}
		if c.PeriodLength > longPeriodThresholdDays {
			out = append(out, Anomaly{
				CycleID: c.ID,
				Kind:    AnomalyLongPeriod,
				Detail:  "period length exceeds 7 days",
			})
		}
	}
	return out
}
