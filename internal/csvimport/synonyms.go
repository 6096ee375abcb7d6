package csvimport

import (
	"strconv"
	"strings"

	"github.com/cycletrack/reconciler/internal/fertility"
)

// cmSynonyms maps a lower-cased, trimmed cervical-mucus cell value to the
// canonical vocabulary. "egg white" normalizes to "egg-white".
var cmSynonyms = map[string]fertility.CervicalMucusValue{
	"dry":        fertility.CMDry,
	"none":       fertility.CMDry,
	"sticky":     fertility.CMSticky,
	"tacky":      fertility.CMSticky,
	"creamy":     fertility.CMCreamy,
	"lotiony":    fertility.CMCreamy,
	"watery":     fertility.CMWatery,
	"egg white":  fertility.CMEggWhite,
	"egg-white":  fertility.CMEggWhite,
	"eggwhite":   fertility.CMEggWhite,
	"ew":         fertility.CMEggWhite,
	"spotting":   fertility.CMSpotting,
	"spot":       fertility.CMSpotting,
}

// normalizeCM resolves a raw cell to the canonical cervical-mucus
// vocabulary, returning ("", false) if no synonym matches.
func normalizeCM(raw string) (fertility.CervicalMucusValue, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	v, ok := cmSynonyms[key]
	return v, ok
}

// opkSynonyms maps a lower-cased, trimmed OPK cell value to an
// intermediate vocabulary of {negative, positive, peak, unknown}; "peak"
// collapses to positive in the observation vocabulary. Anything not in
// this table, including "invalid", is unknown and dropped before
// conversion.
var opkSynonyms = map[string]string{
	"negative": "negative",
	"neg":      "negative",
	"-":        "negative",
	"positive": "positive",
	"pos":      "positive",
	"+":        "positive",
	"peak":     "peak",
}

// normalizeOPK resolves a raw cell to the observation vocabulary
// {negative, positive}, dropping unrecognized values (returns ok=false).
func normalizeOPK(raw string) (fertility.OPKValue, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	resolved, ok := opkSynonyms[key]
	if !ok {
		return "", false
	}
	switch resolved {
	case "peak", "positive":
		return fertility.OPKPositive, true
	case "negative":
		return fertility.OPKNegative, true
	default:
		return "", false
	}
}

// boolSynonyms accepts yes/no/y/n/true/false/1/0/x/empty for the
// intercourse column. An empty cell and unrecognized cells both resolve to
// ok=false (no observation emitted).
var boolSynonyms = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"1":     true,
	"x":     true,
	"no":    false,
	"n":     false,
	"false": false,
	"0":     false,
}

func normalizeBool(raw string) (bool, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return false, false
	}
	v, ok := boolSynonyms[key]
	return v, ok
}

// temperatureStripper strips unit suffixes from a temperature cell before
// numeric parsing.
var temperatureStripper = strings.NewReplacer("°F", "", "°C", "", "°", "", "F", "", "C", "")

const (
	minPlausibleTemp = 95.0
	maxPlausibleTemp = 101.0
)

// normalizeTemperature parses a temperature cell after stripping unit
// suffixes. Returns ok=false for non-numeric input (upstream drops the
// temperature with a warning and keeps the row); outOfRange=true for a numeric value outside [95,101] (a
// warning, not a drop).
func normalizeTemperature(raw string) (value float64, ok bool, outOfRange bool) {
	s := strings.TrimSpace(temperatureStripper.Replace(strings.TrimSpace(raw)))
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	if v < minPlausibleTemp || v > maxPlausibleTemp {
		return v, true, true
	}
	return v, true, false
}
