package reconcile

import (
	"math"
	"sort"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// minContribution is the discard threshold below which a single
// prediction's contribution to a day's probability is not recorded.
const minContribution = 0.1

// dayProbabilities scores each day in the union of all admitted windows,
// extended by 2 days on each end; each day's score is the
// sum of recorded per-prediction contributions divided by the fixed total
// of effective weights (not a per-day normalizer).
func dayProbabilities(inputs []admitted) []fertility.DayProbability {
	if len(inputs) == 0 {
		return nil
	}

	lo, hi := inputs[0].prediction.FertileStart, inputs[0].prediction.FertileEnd
	for _, a := range inputs[1:] {
		lo = dateutil.Min(lo, a.prediction.FertileStart)
		hi = dateutil.Max(hi, a.prediction.FertileEnd)
	}
	lo = dateutil.AddDays(lo, -2)
	hi = dateutil.AddDays(hi, 2)

	var totalWeight float64
	for _, a := range inputs {
		totalWeight += a.weight
	}
	if totalWeight == 0 {
		return nil
	}

	days := dateutil.Range(lo, hi)
	out := make([]fertility.DayProbability, 0, len(days))
	for _, d := range days {
		var sum float64
		for _, a := range inputs {
			c := dayContribution(d, a)
			if c < minContribution {
				continue
			}
			sum += c
		}
		out = append(out, fertility.DayProbability{
			Date:        d,
			Probability: sum / totalWeight,
		})
	}
	return out
}

func dayContribution(d time.Time, a admitted) float64 {
	start, end := a.prediction.FertileStart, a.prediction.FertileEnd
	if !dateutil.Before(d, start) && !dateutil.After(d, end) {
		return a.weight * a.confidence
	}

	distStart := dateutil.DaysBetween(d, start)
	distEnd := dateutil.DaysBetween(d, end)
	k := float64(distStart)
	if distEnd < distStart {
		k = float64(distEnd)
	}
	return a.weight * a.confidence * math.Exp(-(k*k)/2)
}

// daysAtOrAbove filters a day-probability series, preserving ascending
// date order.
func daysAtOrAbove(series []fertility.DayProbability, threshold float64) []fertility.DayProbability {
	out := make([]fertility.DayProbability, 0, len(series))
	for _, dp := range series {
		if dp.Probability >= threshold {
			out = append(out, dp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dateutil.Before(out[i].Date, out[j].Date)
	})
	return out
}
