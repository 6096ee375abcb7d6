package csvimport

import (
	"strings"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
)

// dateLayouts are tried in order: ISO, then US M/D/Y, then European D/M/Y,
// then a handful of free-form fallbacks. This order is deliberate: a file
// with "03/04/2024" resolves as March 4, matching the primary source
// ecosystem rather than detecting locale.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2/1/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// parseDate never consults host locale: every layout is tried in the
// fixed order above.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateutil.Normalize(t), true
		}
	}
	return time.Time{}, false
}
