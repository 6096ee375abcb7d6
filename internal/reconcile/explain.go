package reconcile

import (
	"fmt"
	"strings"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// agreementLabel buckets a continuous agreement score into a label.
func agreementLabel(agreement float64) string {
	switch {
	case agreement >= 0.9:
		return "strong"
	case agreement >= 0.7:
		return "good"
	case agreement >= 0.5:
		return "moderate"
	default:
		return "low"
	}
}

func uniqueSourcesInOrder(inputs []admitted) []fertility.Source {
	seen := make(map[fertility.Source]bool, len(inputs))
	var out []fertility.Source
	for _, a := range inputs {
		if seen[a.prediction.Source] {
			continue
		}
		seen[a.prediction.Source] = true
		out = append(out, a.prediction.Source)
	}
	return out
}

// buildExplanation assembles the ordered explanation parts, one element
// per part (later stages may render them joined).
func buildExplanation(inputs []admitted, agreement float64, window extractedWindow, outliers []fertility.Source, series []fertility.DayProbability) []string {
	var parts []string

	sources := uniqueSourcesInOrder(inputs)
	if len(sources) == 1 {
		parts = append(parts, fmt.Sprintf("Based on %s only.", sources[0]))
	} else {
		tags := make([]string, len(sources))
		for i, s := range sources {
			tags[i] = string(s)
		}
		parts = append(parts, fmt.Sprintf("Reconciled from %d predictions (%s).", len(inputs), strings.Join(tags, ", ")))
	}

	parts = append(parts, fmt.Sprintf("%s agreement.", capitalize(agreementLabel(agreement))))

	if window.found {
		length := dateutil.DaysBetween(window.start, window.end) + 1
		parts = append(parts, fmt.Sprintf("Window %s to %s (%d days).", dateutil.Format(window.start), dateutil.Format(window.end), length))
	}

	if len(outliers) > 0 {
		tags := make([]string, len(outliers))
		for i, s := range outliers {
			tags[i] = string(s)
		}
		parts = append(parts, fmt.Sprintf("Note: %s differ significantly from consensus.", strings.Join(tags, ", ")))
	}

	if peak, ok := peakAboveEightTenths(series); ok {
		parts = append(parts, fmt.Sprintf("Peak fertility date: %s.", dateutil.Format(peak.Date)))
	}

	return parts
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func peakAboveEightTenths(series []fertility.DayProbability) (fertility.DayProbability, bool) {
	var best fertility.DayProbability
	found := false
	for _, dp := range series {
		if dp.Probability < 0.8 {
			continue
		}
		if !found || dp.Probability > best.Probability {
			best = dp
			found = true
		}
	}
	return best, found
}

// fallbackExplanation builds the fallback-specific leading part. It
// replaces part (1); the caller still appends the remaining parts.
func fallbackExplanation(source fertility.Source, window extractedWindow) string {
	length := dateutil.DaysBetween(window.start, window.end) + 1
	return fmt.Sprintf("Low confidence: no window met the threshold; falling back to the highest-weight source (%s). Window %s to %s (%d days).",
		source, dateutil.Format(window.start), dateutil.Format(window.end), length)
}
