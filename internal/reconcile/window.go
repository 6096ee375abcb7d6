package reconcile

import (
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// extractedWindow is the result of the run-extraction scan.
type extractedWindow struct {
	start, end time.Time
	ovulation  time.Time
	found      bool
}

// extractWindow finds the longest run of consecutive days at or above the
// effective threshold; earliest-start wins ties by
// construction of the left-to-right scan. The ovulation estimate is the
// highest-probability day within the winning run, first seen on ties.
func extractWindow(days []fertility.DayProbability) extractedWindow {
	if len(days) == 0 {
		return extractedWindow{}
	}

	bestStart, bestEnd := 0, 0
	curStart := 0
	for i := 1; i <= len(days); i++ {
		broke := i == len(days) || dateutil.DaysBetween(days[i-1].Date, days[i].Date) != 1
		if broke {
			if (i-1)-curStart > bestEnd-bestStart {
				bestStart, bestEnd = curStart, i-1
			}
			curStart = i
		}
	}

	run := days[bestStart : bestEnd+1]
	peak := run[0]
	for _, dp := range run[1:] {
		if dp.Probability > peak.Probability {
			peak = dp
		}
	}

	return extractedWindow{
		start:     run[0].Date,
		end:       run[len(run)-1].Date,
		ovulation: peak.Date,
		found:     true,
	}
}
