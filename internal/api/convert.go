package api

import (
	"fmt"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

func (c cyclePayload) toCycle() (fertility.Cycle, error) {
	start, err := dateutil.Parse(c.StartDate)
	if err != nil {
		return fertility.Cycle{}, fmt.Errorf("startDate: %w", err)
	}
	id := c.ID
	if id == "" {
		id = fertility.NewID()
	}
	return fertility.Cycle{
		ID:           id,
		StartDate:    start,
		Length:       c.Length,
		PeriodLength: c.PeriodLength,
		Notes:        c.Notes,
	}, nil
}

func (o observationPayload) toObservation() (fertility.Observation, error) {
	date, err := dateutil.Parse(o.Date)
	if err != nil {
		return fertility.Observation{}, fmt.Errorf("date: %w", err)
	}
	id := o.ID
	if id == "" {
		id = fertility.NewID()
	}
	return fertility.Observation{
		ID:            id,
		Date:          date,
		Kind:          fertility.ObservationKind(o.Kind),
		CervicalMucus: fertility.CervicalMucusValue(o.CervicalMucus),
		BBT:           o.BBT,
		BBTTimeOfDay:  o.BBTTimeOfDay,
		OPK:           fertility.OPKValue(o.OPK),
		SymptomTag:    o.SymptomTag,
		SymptomSev:    o.SymptomSev,
		Notes:         o.Notes,
	}, nil
}

func (p predictionPayload) toPrediction() (fertility.Prediction, error) {
	start, err := dateutil.Parse(p.FertileStart)
	if err != nil {
		return fertility.Prediction{}, fmt.Errorf("fertileStart: %w", err)
	}
	end, err := dateutil.Parse(p.FertileEnd)
	if err != nil {
		return fertility.Prediction{}, fmt.Errorf("fertileEnd: %w", err)
	}

	var ovulation *time.Time
	if p.OvulationDate != "" {
		d, err := dateutil.Parse(p.OvulationDate)
		if err != nil {
			return fertility.Prediction{}, fmt.Errorf("ovulationDate: %w", err)
		}
		ovulation = &d
	}

	id := p.ID
	if id == "" {
		id = fertility.NewID()
	}
	return fertility.Prediction{
		ID:            id,
		Source:        fertility.Source(p.Source),
		FertileStart:  start,
		FertileEnd:    end,
		OvulationDate: ovulation,
		Confidence:    p.Confidence,
		CycleID:       p.CycleID,
		Notes:         p.Notes,
	}, nil
}

func toCycles(payloads []cyclePayload) ([]fertility.Cycle, error) {
	out := make([]fertility.Cycle, 0, len(payloads))
	for i, p := range payloads {
		c, err := p.toCycle()
		if err != nil {
			return nil, fmt.Errorf("historicalCycles[%d].%w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func toObservations(payloads []observationPayload) ([]fertility.Observation, error) {
	out := make([]fertility.Observation, 0, len(payloads))
	for i, p := range payloads {
		o, err := p.toObservation()
		if err != nil {
			return nil, fmt.Errorf("observations[%d].%w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func toPredictions(payloads []predictionPayload) ([]fertility.Prediction, error) {
	out := make([]fertility.Prediction, 0, len(payloads))
	for i, p := range payloads {
		pr, err := p.toPrediction()
		if err != nil {
			return nil, fmt.Errorf("externalPredictions[%d].%w", i, err)
		}
		out = append(out, pr)
	}
	return out, nil
}
