// Package symptom implements a fertile-window estimate derived from daily
// cervical-mucus, OPK, and BBT observations, plus the auxiliary BBT-shift
// detector.
//
// The per-day aggregation step follows an exclusive-window aggregation
// shape: group raw readings by key (here, a calendar date), reduce each
// group to a small summary struct, then classify.
package symptom

import (
	"sort"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// Options tunes the symptom predictor.
type Options struct {
	MinCMScoreThreshold int     // default 3
	DaysBeforeOPK       int     // default 2
	DaysAfterOPK        int     // default 2
	CMWeight            float64 // default 0.6
	OPKWeight           float64 // default 0.9
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		MinCMScoreThreshold: 3,
		DaysBeforeOPK:       2,
		DaysAfterOPK:        2,
		CMWeight:            0.6,
		OPKWeight:           0.9,
	}
}

// cmScores is the fixed cervical-mucus scoring table.
var cmScores = map[fertility.CervicalMucusValue]int{
	fertility.CMDry:      0,
	fertility.CMSticky:   1,
	fertility.CMCreamy:   2,
	fertility.CMWatery:   4,
	fertility.CMEggWhite: 5,
	fertility.CMSpotting: 1,
}

// dayAggregate is the per-date summary produced by the aggregation step.
type dayAggregate struct {
	date          time.Time
	cmScore       int
	opkPositive   bool
	hasBBT        bool
	bbt           float64
	fertilityScore float64
}

// aggregateByDay groups observations by date and reduces each group to a
// dayAggregate.
func aggregateByDay(observations []fertility.Observation, opts Options) []dayAggregate {
	byDate := make(map[int64]*dayAggregate)
	var order []int64

	keyFor := func(d time.Time) int64 {
		return dateutil.Normalize(d).Unix()
	}

	get := func(d time.Time) *dayAggregate {
		k := keyFor(d)
		agg, ok := byDate[k]
		if !ok {
			agg = &dayAggregate{date: dateutil.Normalize(d)}
			byDate[k] = agg
			order = append(order, k)
		}
		return agg
	}

	for _, obs := range observations {
		agg := get(obs.Date)
		switch obs.Kind {
		case fertility.KindCervicalMucus:
			if score, ok := cmScores[obs.CervicalMucus]; ok && score > agg.cmScore {
				agg.cmScore = score
			}
		case fertility.KindOPK:
			if obs.OPK == fertility.OPKPositive {
				agg.opkPositive = true
			}
		case fertility.KindBBT:
			agg.hasBBT = true
			agg.bbt = obs.BBT
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	result := make([]dayAggregate, 0, len(order))
	for _, k := range order {
		agg := byDate[k]
		cmFraction := float64(agg.cmScore) / 5.0 * opts.CMWeight
		opkContribution := 0.0
		if agg.opkPositive {
			opkContribution = opts.OPKWeight
		}
		score := cmFraction + opkContribution
		if score > 1 {
			score = 1
		}
		agg.fertilityScore = score
		result = append(result, *agg)
	}
	return result
}

// Predict produces a fertile-window prediction from a heterogeneous
// observation list, or ok=false if there is insufficient signal to
// produce one.
func Predict(observations []fertility.Observation, opts Options) (fertility.Prediction, bool) {
	days := aggregateByDay(observations, opts)
	if len(days) == 0 {
		return fertility.Prediction{}, false
	}

	var start, end, ovulation time.Time
	found := false

	// First OPK-positive day wins.
	for _, d := range days {
		if d.opkPositive {
			start = dateutil.AddDays(d.date, -opts.DaysBeforeOPK)
			end = dateutil.AddDays(d.date, opts.DaysAfterOPK)
			ovulation = dateutil.AddDays(d.date, 1)
			found = true
			break
		}
	}

	if !found {
		// Highest-CM day among those at/above threshold; ties broken by
		// earliest date, matching a stable left-to-right scan.
		var best *dayAggregate
		var earliestHigh *dayAggregate
		for i := range days {
			d := &days[i]
			if d.cmScore < opts.MinCMScoreThreshold {
				continue
			}
			if earliestHigh == nil {
				earliestHigh = d
			}
			if best == nil || d.cmScore > best.cmScore {
				best = d
			}
		}
		if best != nil {
			start = earliestHigh.date
			end = dateutil.AddDays(best.date, 2)
			ovulation = dateutil.AddDays(best.date, 1)
			found = true
		}
	}

	if !found {
		return fertility.Prediction{}, false
	}

	now := time.Now().UTC()
	return fertility.Prediction{
		ID:            fertility.NewID(),
		Source:        fertility.SourceFertilityFriend,
		FertileStart:  start,
		FertileEnd:    end,
		OvulationDate: &ovulation,
		Confidence:    confidence(days, opts),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, true
}

// confidence computes the symptom predictor's confidence.
func confidence(days []dayAggregate, opts Options) int {
	c := 40

	hasOPK := false
	hasHighCM := false
	for _, d := range days {
		if d.opkPositive {
			hasOPK = true
		}
		if d.cmScore >= opts.MinCMScoreThreshold {
			hasHighCM = true
		}
	}

	if hasOPK {
		c += 35
	}
	if hasHighCM {
		c += 15
	}

	if len(days) >= 10 {
		c += 10
	} else if len(days) >= 5 {
		c += 5
	}

	if hasOPK && hasHighCM {
		c += 10
	}

	if c > 95 {
		c = 95
	}
	return c
}
