// Package dateutil provides civil-date arithmetic at day granularity.
//
// A civil date is a calendar date with no clock time, time zone, or DST
// effects. Every conversion here goes through UTC midnight so that
// arithmetic is stable across daylight-saving boundaries, matching the
// convention this module's other time-window helpers use for civil-day math.
package dateutil

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string into a UTC-midnight time.Time.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: invalid civil date %q: %w", s, err)
	}
	return Normalize(t), nil
}

// Format renders a civil date as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(layout)
}

// Normalize strips time-of-day and zone, anchoring the date at UTC midnight.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the normalized civil date for the given instant, UTC.
func Today(now time.Time) time.Time {
	return Normalize(now)
}

// AddDays returns the civil date n days after d (n may be negative).
func AddDays(d time.Time, n int) time.Time {
	return Normalize(d).AddDate(0, 0, n)
}

// DaysBetween returns the non-negative number of days between a and b,
// regardless of which comes first.
func DaysBetween(a, b time.Time) int {
	n := SignedDaysBetween(b, a)
	if n < 0 {
		return -n
	}
	return n
}

// SignedDaysBetween returns the number of days from a to b (b - a), which
// may be negative if b precedes a.
func SignedDaysBetween(a, b time.Time) int {
	a = Normalize(a)
	b = Normalize(b)
	return int(b.Sub(a).Hours() / 24)
}

// Before reports whether a is strictly before b (civil-date comparison).
func Before(a, b time.Time) bool {
	return Normalize(a).Before(Normalize(b))
}

// After reports whether a is strictly after b (civil-date comparison).
func After(a, b time.Time) bool {
	return Normalize(a).After(Normalize(b))
}

// Equal reports whether a and b are the same civil date.
func Equal(a, b time.Time) bool {
	return Normalize(a).Equal(Normalize(b))
}

// Min returns the earlier of two civil dates.
func Min(a, b time.Time) time.Time {
	if Before(a, b) {
		return a
	}
	return b
}

// Max returns the later of two civil dates.
func Max(a, b time.Time) time.Time {
	if After(a, b) {
		return a
	}
	return b
}

// Range enumerates the inclusive sequence of civil dates from start to end.
// Returns an empty slice if start is after end.
func Range(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return nil
	}
	n := DaysBetween(start, end) + 1
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = AddDays(start, i)
	}
	return days
}
