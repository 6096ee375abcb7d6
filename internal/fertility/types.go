// Package fertility holds the core value types shared by the predictors,
// the reconciler, and the CSV normalizer: Cycle, Observation, Prediction,
// SourceWeights, and ReconciledPrediction.
//
// Every type here is an immutable-by-convention value: no method mutates
// its receiver's exported fields, and nothing holds a reference back to a
// persistence layer. Identifiers are opaque strings minted with
// github.com/google/uuid; dates are represented as civil-date time.Time
// values normalized by internal/dateutil.
package fertility

import (
	"time"

	"github.com/google/uuid"
)

// NewID mints a fresh globally-unique identifier.
func NewID() string {
	return uuid.NewString()
}

// Cycle is a historical menstrual cycle.
type Cycle struct {
	ID           string
	StartDate    time.Time
	Length       int // total cycle length in days
	PeriodLength int // period length in days
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Valid reports whether the cycle satisfies its data-model invariants:
// length >= 1 and periodLength <= length.
func (c Cycle) Valid() bool {
	return c.Length >= 1 && c.PeriodLength <= c.Length
}

// ObservationKind tags the variant a given Observation carries.
type ObservationKind string

const (
	KindCervicalMucus ObservationKind = "cervical-mucus"
	KindBBT           ObservationKind = "bbt"
	KindOPK           ObservationKind = "opk"
	KindSymptom       ObservationKind = "symptom"
)

// CervicalMucusValue is the canonical cervical-mucus vocabulary.
type CervicalMucusValue string

const (
	CMDry       CervicalMucusValue = "dry"
	CMSticky    CervicalMucusValue = "sticky"
	CMCreamy    CervicalMucusValue = "creamy"
	CMWatery    CervicalMucusValue = "watery"
	CMEggWhite  CervicalMucusValue = "egg-white"
	CMSpotting  CervicalMucusValue = "spotting"
)

// OPKValue is the canonical ovulation-predictor-kit vocabulary.
type OPKValue string

const (
	OPKNegative      OPKValue = "negative"
	OPKAlmostPositive OPKValue = "almost-positive"
	OPKPositive      OPKValue = "positive"
	OPKInvalid       OPKValue = "invalid"
)

// Observation is a single dated data point, tagged by kind. Exactly one of
// the *Value fields is meaningful for a given Kind; the others are zero.
type Observation struct {
	ID   string
	Date time.Time
	Kind ObservationKind

	CervicalMucus CervicalMucusValue // valid when Kind == KindCervicalMucus
	BBT           float64            // Fahrenheit, valid when Kind == KindBBT
	BBTTimeOfDay  string             // optional, e.g. "06:45"
	OPK           OPKValue           // valid when Kind == KindOPK
	SymptomTag    string             // valid when Kind == KindSymptom
	SymptomSev    int                // 1..3, optional, valid when Kind == KindSymptom

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Source is the enumeration of prediction-source tags. Unknown tags are
// accepted elsewhere in the pipeline and fall back to a default weight.
type Source string

const (
	SourceNaturalCycles    Source = "natural-cycles"
	SourceFertilityFriend  Source = "fertility-friend"
	SourceFertileAlgorithm Source = "fertile-algorithm"
	SourceFlo              Source = "flo"
	SourceClue             Source = "clue"
	SourceOvia             Source = "ovia"
	SourceManual           Source = "manual"
	SourceSymptoms         Source = "symptoms"
	SourceCalendar         Source = "calendar"
)

// Prediction is a fertile-window claim from a single source.
type Prediction struct {
	ID             string
	Source         Source
	FertileStart   time.Time
	FertileEnd     time.Time
	OvulationDate  *time.Time
	Confidence     int // 0..100
	CycleID        string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Valid reports whether the prediction's window is internally ordered.
func (p Prediction) Valid() bool {
	return !p.FertileStart.After(p.FertileEnd)
}

// SourceWeights maps a source tag to a trust weight in [0,1]. Missing keys
// fall back to DefaultWeight.
type SourceWeights map[Source]float64

// DefaultWeight is used for any source tag absent from a SourceWeights map,
// including unknown/unrecognized tags.
const DefaultWeight = 0.5

// DefaultSourceWeights are the authoritative default per-source weights.
func DefaultSourceWeights() SourceWeights {
	return SourceWeights{
		SourceNaturalCycles:    0.95,
		SourceFertilityFriend:  0.90,
		SourceFertileAlgorithm: 0.85,
		SourceSymptoms:         0.75,
		SourceFlo:              0.70,
		SourceClue:             0.70,
		SourceOvia:             0.65,
		SourceManual:           0.60,
		SourceCalendar:         0.55,
	}
}

// Weight returns the effective weight for a source, applying the default
// fallback for missing or unknown tags.
func (w SourceWeights) Weight(s Source) float64 {
	if w == nil {
		return DefaultWeight
	}
	if v, ok := w[s]; ok {
		return v
	}
	return DefaultWeight
}

// Merge returns a copy of the defaults with overrides applied. A nil or
// empty overrides map returns the defaults unchanged.
func (w SourceWeights) Merge(overrides SourceWeights) SourceWeights {
	merged := make(SourceWeights, len(w)+len(overrides))
	for k, v := range w {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// DayProbability is one day's fused fertility probability within a
// ReconciledPrediction's diagnostics.
type DayProbability struct {
	Date        time.Time
	Probability float64
}

// Diagnostics carries the reconciler's supporting evidence for a
// ReconciledPrediction: agreement, outliers, effective weights, the
// per-day probability series, and the count of predictions admitted.
type Diagnostics struct {
	SourceAgreement  float64
	Outliers         []Source
	EffectiveWeights map[Source]float64
	DayProbabilities []DayProbability
	InputPredictions int
}

// ReconciledPrediction is the pipeline's final fused output.
type ReconciledPrediction struct {
	FertileStart  time.Time
	FertileEnd    time.Time
	OvulationDate *time.Time
	Confidence    float64 // 0..1
	Explanations  []string
	Diagnostics   Diagnostics
}
