package api

import (
	"github.com/go-playground/validator/v10"
)

// validate is a single package-level validator instance, reused across
// requests: validator.New() once, `validate:"..."` struct tags, and
// .Struct(req) at each call site.
var validate = validator.New()

// reconcileRequest is the body for POST /v1/reconcile.
type reconcileRequest struct {
	CurrentCycleStart   string               `json:"currentCycleStart" validate:"required,datetime=2006-01-02"`
	HistoricalCycles    []cyclePayload       `json:"historicalCycles"`
	Observations        []observationPayload `json:"observations"`
	ExternalPredictions []predictionPayload  `json:"externalPredictions"`
}

type cyclePayload struct {
	ID           string `json:"id"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Length       int    `json:"length" validate:"required,gt=0"`
	PeriodLength int    `json:"periodLength"`
	Notes        string `json:"notes"`
}

type observationPayload struct {
	ID            string  `json:"id"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Kind          string  `json:"kind" validate:"required,oneof=cervical-mucus bbt opk symptom"`
	CervicalMucus string  `json:"cervicalMucus"`
	BBT           float64 `json:"bbt"`
	BBTTimeOfDay  string  `json:"bbtTimeOfDay"`
	OPK           string  `json:"opk"`
	SymptomTag    string  `json:"symptomTag"`
	SymptomSev    int     `json:"symptomSeverity"`
	Notes         string  `json:"notes"`
}

type predictionPayload struct {
	ID            string  `json:"id"`
	Source        string  `json:"source" validate:"required"`
	FertileStart  string  `json:"fertileStart" validate:"required,datetime=2006-01-02"`
	FertileEnd    string  `json:"fertileEnd" validate:"required,datetime=2006-01-02"`
	OvulationDate string  `json:"ovulationDate"`
	Confidence    int     `json:"confidence" validate:"gte=0,lte=100"`
	CycleID       string  `json:"cycleId"`
	Notes         string  `json:"notes"`
}

// csvImportRequest is the body for POST /v1/csv-import.
type csvImportRequest struct {
	CSV string `json:"csv" validate:"required"`
}

// insightsRequest is the body for POST /v1/quality/insights.
type insightsRequest struct {
	Cycles       []cyclePayload       `json:"cycles"`
	Observations []observationPayload `json:"observations"`
}
