package reconcile

import "github.com/cycletrack/reconciler/internal/fertility"

// admitted pairs a prediction with its effective weight and normalized
// self-confidence, precomputed once so every downstream stage reuses the
// same values.
type admitted struct {
	prediction fertility.Prediction
	weight     float64
	confidence float64 // prediction.Confidence / 100, defaulting to 0.5
}

// admit short-circuits on minSources, then filters out zero-confidence
// predictions. Returns ok=false if nothing survives. Input order is
// preserved throughout.
func admit(predictions []fertility.Prediction, weights fertility.SourceWeights, minSources int) ([]admitted, bool) {
	if len(predictions) < minSources {
		return nil, false
	}

	result := make([]admitted, 0, len(predictions))
	for _, p := range predictions {
		if p.Confidence == 0 {
			continue
		}
		conf := 0.5
		if p.Confidence > 0 {
			conf = float64(p.Confidence) / 100.0
		}
		result = append(result, admitted{
			prediction: p,
			weight:     weights.Weight(p.Source),
			confidence: conf,
		})
	}

	if len(result) == 0 {
		return nil, false
	}
	return result, true
}
