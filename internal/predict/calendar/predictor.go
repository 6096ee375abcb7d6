// Package calendar implements a fertile-window estimate derived from a
// cycle start date and the user's historical cycle lengths, with no
// observation data required.
//
// The shape follows a deterministic-fallback-predictor pattern: a pure
// function over a small struct of inputs, confidence built up from a base
// value through a fixed sequence of clamped adjustments, never a stateful
// "predictor object".
package calendar

import (
	"math"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// Options tunes the calendar predictor. Zero-value Options is invalid;
// use DefaultOptions().
type Options struct {
	LutealPhaseLength  int // L, default 14
	DaysBeforeOvulation int // B, default 5
	DaysAfterOvulation  int // A, default 1
	RegularityBonus     int // R, default 10
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		LutealPhaseLength:   14,
		DaysBeforeOvulation: 5,
		DaysAfterOvulation:  1,
		RegularityBonus:     10,
	}
}

const (
	defaultAverageCycle = 28
	defaultStdDev       = 5.0
	baseConfidence      = 55
	minConfidence       = 20
	maxConfidence       = 80
)

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// averageAndStdDev computes the (rounded) arithmetic mean and the
// population standard deviation of historical cycle lengths, falling back
// to fixed defaults when there are too few cycles to estimate from.
func averageAndStdDev(history []fertility.Cycle) (avg int, stddev float64) {
	if len(history) == 0 {
		return defaultAverageCycle, defaultStdDev
	}

	sum := 0
	for _, c := range history {
		sum += c.Length
	}
	mean := float64(sum) / float64(len(history))
	avg = int(math.Round(mean))

	if len(history) < 2 {
		return avg, defaultStdDev
	}

	var variance float64
	for _, c := range history {
		d := float64(c.Length) - mean
		variance += d * d
	}
	variance /= float64(len(history))
	return avg, math.Sqrt(variance)
}

// confidence computes the calendar predictor's confidence score: base 55,
// then a sequence of clamped adjustments.
func confidence(historyCount int, stddev float64, opts Options) int {
	c := baseConfidence

	if historyCount >= 6 {
		c = clamp(c+10, minConfidence, maxConfidence)
	} else if historyCount >= 3 {
		c = clamp(c+5, minConfidence, maxConfidence)
	}

	switch {
	case stddev <= 2:
		c = clamp(c+opts.RegularityBonus, minConfidence, maxConfidence)
	case stddev <= 4:
		c = clamp(c+opts.RegularityBonus/2, minConfidence, maxConfidence)
	case stddev > 6:
		c = clamp(c-15, minConfidence, maxConfidence)
	}

	return c
}

// Predict produces a single fertile-window prediction for the cycle
// beginning at start, given the user's historical cycle lengths.
func Predict(start time.Time, history []fertility.Cycle, opts Options) fertility.Prediction {
	avg, stddev := averageAndStdDev(history)
	ovulationOffset := avg - opts.LutealPhaseLength

	ovulation := dateutil.AddDays(start, ovulationOffset)
	windowStart := dateutil.AddDays(start, ovulationOffset-opts.DaysBeforeOvulation)
	windowEnd := dateutil.AddDays(start, ovulationOffset+opts.DaysAfterOvulation)

	now := time.Now().UTC()
	return fertility.Prediction{
		ID:            fertility.NewID(),
		Source:        fertility.SourceManual,
		FertileStart:  windowStart,
		FertileEnd:    windowEnd,
		OvulationDate: &ovulation,
		Confidence:    confidence(len(history), stddev, opts),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Multi produces N consecutive cycle projections, each cycle seeded C days
// after the previous one (C being the historical average cycle length),
// with confidence decaying by 10 points per step and floored at 20.
func Multi(start time.Time, history []fertility.Cycle, n int, opts Options) []fertility.Prediction {
	if n <= 0 {
		return nil
	}

	avg, _ := averageAndStdDev(history)
	predictions := make([]fertility.Prediction, 0, n)

	seed := start
	for i := 0; i < n; i++ {
		p := Predict(seed, history, opts)
		decayed := p.Confidence - 10*i
		if decayed < minConfidence {
			decayed = minConfidence
		}
		p.Confidence = decayed
		predictions = append(predictions, p)
		seed = dateutil.AddDays(seed, avg)
	}

	return predictions
}
