package reconcile

import (
	"math"
	"time"
)

// dayOrdinal converts a UTC-midnight civil date into a day-granular
// ordinal suitable for mean/variance arithmetic.
func dayOrdinal(t time.Time) float64 {
	return float64(t.Unix()) / 86400.0
}

// sourceAgreement is 1 for a single prediction; otherwise exp(-v̄/8) where
// v̄ is the average of the population variances of start-date and
// end-date ordinals (the biased, divide-by-N form — see DESIGN.md for
// the reasoning behind that choice).
func sourceAgreement(inputs []admitted) float64 {
	if len(inputs) <= 1 {
		return 1.0
	}

	n := float64(len(inputs))
	var sumStart, sumEnd float64
	for _, a := range inputs {
		sumStart += dayOrdinal(a.prediction.FertileStart)
		sumEnd += dayOrdinal(a.prediction.FertileEnd)
	}
	meanStart := sumStart / n
	meanEnd := sumEnd / n

	var varStart, varEnd float64
	for _, a := range inputs {
		ds := dayOrdinal(a.prediction.FertileStart) - meanStart
		de := dayOrdinal(a.prediction.FertileEnd) - meanEnd
		varStart += ds * ds
		varEnd += de * de
	}
	varStart /= n
	varEnd /= n

	avgVariance := (varStart + varEnd) / 2
	return math.Exp(-avgVariance / 8)
}
