package quality

import (
	"math"

	"github.com/cycletrack/reconciler/internal/fertility"
)

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population (divide-by-N) standard deviation, matching the
// reconciler's biased-variance convention (internal/reconcile/agreement.go).
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := meanOf(values)
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func cycleLengths(cycles []fertility.Cycle) []float64 {
	out := make([]float64, len(cycles))
	for i, c := range cycles {
		out[i] = float64(c.Length)
	}
	return out
}
