package reconcile

import "github.com/cycletrack/reconciler/internal/fertility"

// outlierDistanceDays is the centroid-distance threshold, in days, past
// which a prediction's start or end is flagged as an outlier.
const outlierDistanceDays = 3

// findOutliers is undefined (empty) below three predictions; otherwise it
// computes the weighted centroid of start and end dates
// (weights only, no confidence factor), and any prediction whose start or
// end is more than 3 days from its respective centroid. Source tags are
// reported in input order, duplicates permitted.
func findOutliers(inputs []admitted) []fertility.Source {
	if len(inputs) < 3 {
		return nil
	}

	var totalWeight, weightedStart, weightedEnd float64
	for _, a := range inputs {
		weightedStart += a.weight * dayOrdinal(a.prediction.FertileStart)
		weightedEnd += a.weight * dayOrdinal(a.prediction.FertileEnd)
		totalWeight += a.weight
	}
	if totalWeight == 0 {
		return nil
	}
	centroidStart := weightedStart / totalWeight
	centroidEnd := weightedEnd / totalWeight

	var outliers []fertility.Source
	for _, a := range inputs {
		startDist := dayOrdinal(a.prediction.FertileStart) - centroidStart
		endDist := dayOrdinal(a.prediction.FertileEnd) - centroidEnd
		if abs(startDist) > outlierDistanceDays || abs(endDist) > outlierDistanceDays {
			outliers = append(outliers, a.prediction.Source)
		}
	}
	return outliers
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
