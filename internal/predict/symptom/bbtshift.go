package symptom

import (
	"sort"
	"time"

	"github.com/cycletrack/reconciler/internal/fertility"
)

// bbtBaselineSize is the number of readings used to establish the
// baseline, and bbtBaselineLow is how many of the lowest of those count
// toward the baseline mean.
const (
	bbtBaselineSize = 6
	bbtBaselineLow  = 5
	bbtShiftDelta   = 0.2 // degrees Fahrenheit
	bbtShiftRun     = 3   // consecutive days at/above baseline+delta
)

// BBTShift is the result of the post-hoc BBT-shift detector: diagnostic
// only, never an input to the reconciler.
type BBTShift struct {
	Date      time.Time
	Confirmed bool
}

// DetectShift looks for a sustained post-ovulatory temperature rise across
// BBT-only observations. It requires at least 6 entries; the baseline is
// the mean of the lowest 5 of the first 6 readings (sorted by date), and
// the shift is declared at the first index i (i >= 6) where three
// consecutive readings are all at or above baseline + 0.2F.
func DetectShift(observations []fertility.Observation) (BBTShift, bool) {
	var bbt []fertility.Observation
	for _, o := range observations {
		if o.Kind == fertility.KindBBT {
			bbt = append(bbt, o)
		}
	}
	if len(bbt) < bbtBaselineSize {
		return BBTShift{}, false
	}

	sort.Slice(bbt, func(i, j int) bool { return bbt[i].Date.Before(bbt[j].Date) })

	baselineWindow := make([]float64, bbtBaselineSize)
	for i := 0; i < bbtBaselineSize; i++ {
		baselineWindow[i] = bbt[i].BBT
	}
	sort.Float64s(baselineWindow)

	var sum float64
	for i := 0; i < bbtBaselineLow; i++ {
		sum += baselineWindow[i]
	}
	baseline := sum / float64(bbtBaselineLow)
	threshold := baseline + bbtShiftDelta

	for i := bbtBaselineSize; i+bbtShiftRun-1 < len(bbt); i++ {
		allAbove := true
		for k := 0; k < bbtShiftRun; k++ {
			if bbt[i+k].BBT < threshold {
				allAbove = false
				break
			}
		}
		if allAbove {
			return BBTShift{Date: bbt[i].Date, Confirmed: true}, true
		}
	}

	return BBTShift{}, false
}
