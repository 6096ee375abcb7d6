package csvimport

import (
	"sort"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// newCycleGapDays is the minimum observation gap, in days, that begins a
// new inferred cycle.
const newCycleGapDays = 8

// minInferredCycleSpanDays is the minimum span, in days, for an inferred
// cycle to be retained.
const minInferredCycleSpanDays = 14

// InferCycles infers cycle boundaries from an observation date stream: a
// new cycle begins after any gap of newCycleGapDays or more between
// consecutive observation dates; an inferred cycle is retained only if its
// span (last date − first date) is at least minInferredCycleSpanDays.
// Observations must already be sorted ascending by date (Normalize's
// output satisfies this).
func InferCycles(observations []fertility.Observation) []fertility.Cycle {
	if len(observations) == 0 {
		return nil
	}

	dates := uniqueDatesAscending(observations)
	if len(dates) == 0 {
		return nil
	}

	var cycles []fertility.Cycle
	segStart := dates[0]
	segEnd := dates[0]

	flush := func() {
		span := dateutil.DaysBetween(segStart, segEnd)
		if span < minInferredCycleSpanDays {
			return
		}
		cycles = append(cycles, fertility.Cycle{
			ID:        fertility.NewID(),
			StartDate: segStart,
			Length:    span,
		})
	}

	for _, d := range dates[1:] {
		if dateutil.DaysBetween(segEnd, d) >= newCycleGapDays {
			flush()
			segStart = d
		}
		segEnd = d
	}
	flush()

	return cycles
}

func uniqueDatesAscending(observations []fertility.Observation) []time.Time {
	seen := make(map[string]bool, len(observations))
	var dates []time.Time
	for _, o := range observations {
		key := dateutil.Format(o.Date)
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, o.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dateutil.Before(dates[i], dates[j]) })
	return dates
}
