package reconcile

import (
	"github.com/cycletrack/reconciler/internal/fertility"
)

// Reconcile fuses any number of fertile-window predictions into a single
// unified prediction with calibrated confidence, diagnostics, and an
// explanation. Returns ok=false when admission yields nothing (empty
// input, all-zero-confidence, or fewer than MinSources).
func Reconcile(req Request) (fertility.ReconciledPrediction, bool) {
	opts := req.Options
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	weights := req.Weights
	if weights == nil {
		weights = fertility.DefaultSourceWeights()
	}

	inputs, ok := admit(req.Predictions, weights, opts.MinSources)
	if !ok {
		return fertility.ReconciledPrediction{}, false
	}

	agreement := sourceAgreement(inputs)
	outliers := findOutliers(inputs)
	series := dayProbabilities(inputs)
	threshold := effectiveThreshold(opts.MinConfidenceThreshold, opts.DisagreementPenalty, agreement)
	eligible := daysAtOrAbove(series, threshold)

	effectiveWeights := make(map[fertility.Source]float64, len(inputs))
	for _, a := range inputs {
		effectiveWeights[a.prediction.Source] = a.weight
	}

	diagnostics := fertility.Diagnostics{
		SourceAgreement:  agreement,
		Outliers:         outliers,
		EffectiveWeights: effectiveWeights,
		DayProbabilities: series,
		InputPredictions: len(inputs),
	}

	window := extractWindow(eligible)
	if !window.found {
		return fallbackResult(inputs, agreement, diagnostics), true
	}

	confidence := synthesizeConfidence(agreement, len(inputs), len(outliers))
	explanation := buildExplanation(inputs, agreement, window, outliers, series)

	return fertility.ReconciledPrediction{
		FertileStart:  window.start,
		FertileEnd:    window.end,
		OvulationDate: ptr(window.ovulation),
		Confidence:    confidence,
		Explanations:  explanation,
		Diagnostics:   diagnostics,
	}, true
}

func fallbackResult(inputs []admitted, agreement float64, diagnostics fertility.Diagnostics) fertility.ReconciledPrediction {
	chosen := selectFallback(inputs)
	window := extractedWindow{
		start: chosen.prediction.FertileStart,
		end:   chosen.prediction.FertileEnd,
		found: true,
	}

	confidence := agreement * 0.5
	if confidence < 0.2 {
		confidence = 0.2
	}

	explanation := []string{fallbackExplanation(chosen.prediction.Source, window)}
	rest := buildExplanation(inputs, agreement, extractedWindow{}, diagnostics.Outliers, diagnostics.DayProbabilities)
	explanation = append(explanation, rest[1:]...)

	return fertility.ReconciledPrediction{
		FertileStart:  window.start,
		FertileEnd:    window.end,
		OvulationDate: chosen.prediction.OvulationDate,
		Confidence:    confidence,
		Explanations:  explanation,
		Diagnostics:   diagnostics,
	}
}

func ptr[T any](v T) *T {
	return &v
}
