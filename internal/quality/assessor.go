// Package quality implements a pure scoring function over a user's cycle
// and observation history that grades how much signal the pipeline
// actually has to work with, independent of any particular prediction.
//
// Built on the same pure-decision-function shape as internal/reconcile:
// no mutable state, no I/O.
package quality

import (
	"github.com/cycletrack/reconciler/internal/fertility"
)

// Band is the overall quality grade.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Impact classifies a Factor's effect on the score.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Factor is one scored input to the overall assessment.
type Factor struct {
	Name        string
	Impact      Impact
	Description string
}

// Assessment is the assessor's output.
type Assessment struct {
	Band            Band
	Score           int
	Factors         []Factor
	Recommendations []string
}

// Request bundles the assessor's inputs.
type Request struct {
	CurrentCycleStart   string
	HistoricalCycles    []fertility.Cycle
	Observations        []fertility.Observation
	ExternalPredictions []fertility.Prediction
}

// Assess scores the inputs: start at 50, then adjust for cycle-history
// depth, cycle regularity, OPK presence, cervical-mucus density, and
// external-prediction corroboration.
func Assess(req Request) Assessment {
	score := 50
	var factors []Factor

	score, factors = scoreCycleCount(req.HistoricalCycles, score, factors)
	score, factors = scoreRegularity(req.HistoricalCycles, score, factors)
	score, factors = scoreOPKPresence(req.Observations, score, factors)
	score, factors = scoreCervicalMucus(req.Observations, score, factors)
	score, factors = scoreExternalPredictions(req.ExternalPredictions, score, factors)

	score = clampScore(score)

	return Assessment{
		Band:            bandFor(score),
		Score:           score,
		Factors:         factors,
		Recommendations: recommendationsFor(factors),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func bandFor(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}

func scoreCycleCount(cycles []fertility.Cycle, score int, factors []Factor) (int, []Factor) {
	n := len(cycles)
	switch {
	case n >= 6:
		return score + 15, append(factors, Factor{
			Name:        "cycle history",
			Impact:      ImpactPositive,
			Description: "at least six recorded cycles gives the calendar predictor a stable baseline",
		})
	case n >= 3:
		return score + 8, append(factors, Factor{
			Name:        "cycle history",
			Impact:      ImpactPositive,
			Description: "at least three recorded cycles provides a workable baseline",
		})
	default:
		return score - 5, append(factors, Factor{
			Name:        "cycle history",
			Impact:      ImpactNegative,
			Description: "fewer than three recorded cycles limits calendar-based prediction",
		})
	}
}

func scoreRegularity(cycles []fertility.Cycle, score int, factors []Factor) (int, []Factor) {
	if len(cycles) < 2 {
		return score, factors
	}
	stddev := cycleLengthStdDev(cycles)
	switch {
	case stddev <= 2:
		return score + 10, append(factors, Factor{
			Name:        "cycle regularity",
			Impact:      ImpactPositive,
			Description: "cycle lengths vary by 2 days or less",
		})
	case stddev <= 4:
		return score, append(factors, Factor{
			Name:        "cycle regularity",
			Impact:      ImpactNeutral,
			Description: "cycle lengths vary moderately",
		})
	default:
		return score - 10, append(factors, Factor{
			Name:        "cycle regularity",
			Impact:      ImpactNegative,
			Description: "cycle lengths vary by more than 4 days, reducing calendar-prediction accuracy",
		})
	}
}

func cycleLengthStdDev(cycles []fertility.Cycle) float64 {
	return stdDev(cycleLengths(cycles))
}

func scoreOPKPresence(observations []fertility.Observation, score int, factors []Factor) (int, []Factor) {
	for _, o := range observations {
		if o.Kind == fertility.KindOPK {
			return score + 20, append(factors, Factor{
				Name:        "OPK observations",
				Impact:      ImpactPositive,
				Description: "ovulation predictor kit readings directly corroborate ovulation timing",
			})
		}
	}
	return score, factors
}

func scoreCervicalMucus(observations []fertility.Observation, score int, factors []Factor) (int, []Factor) {
	count := 0
	for _, o := range observations {
		if o.Kind == fertility.KindCervicalMucus {
			count++
		}
	}
	switch {
	case count >= 7:
		return score + 10, append(factors, Factor{
			Name:        "cervical mucus observations",
			Impact:      ImpactPositive,
			Description: "a full week or more of cervical-mucus tracking supports symptom-based prediction",
		})
	case count >= 1:
		return score + 3, append(factors, Factor{
			Name:        "cervical mucus observations",
			Impact:      ImpactPositive,
			Description: "some cervical-mucus tracking is present but sparse",
		})
	default:
		return score, factors
	}
}

func scoreExternalPredictions(predictions []fertility.Prediction, score int, factors []Factor) (int, []Factor) {
	sources := make(map[fertility.Source]bool)
	for _, p := range predictions {
		sources[p.Source] = true
	}
	n := len(sources)
	if n == 0 {
		return score, factors
	}
	if n > 3 {
		n = 3
	}
	return score + 5*n, append(factors, Factor{
		Name:        "external predictions",
		Impact:      ImpactPositive,
		Description: "corroborating predictions from other sources increase confidence in reconciliation",
	})
}

func recommendationsFor(factors []Factor) []string {
	var recs []string
	for _, f := range factors {
		if f.Impact != ImpactNegative {
			continue
		}
		switch f.Name {
		case "cycle history":
			recs = append(recs, "log at least three full cycles to improve calendar-based predictions")
		case "cycle regularity":
			recs = append(recs, "irregular cycles benefit more from symptom tracking (OPK, cervical mucus, BBT) than from calendar prediction alone")
		}
	}
	hasOPK := false
	for _, f := range factors {
		if f.Name == "OPK observations" {
			hasOPK = true
		}
	}
	if !hasOPK {
		recs = append(recs, "add ovulation predictor kit readings around the expected fertile window for stronger corroboration")
	}
	return recs
}
