// Package memstore is an in-memory reference implementation of the
// store.Store contract, used by tests and as the API server's backend
// when StoreBackend is "memory" (the default).
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/store"
)

// Store is a mutex-guarded, map-backed implementation of store.Store.
type Store struct {
	mu           sync.RWMutex
	cycles       map[string]fertility.Cycle
	predictions  map[string]fertility.Prediction
	observations map[string]fertility.Observation
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		cycles:       make(map[string]fertility.Cycle),
		predictions:  make(map[string]fertility.Prediction),
		observations: make(map[string]fertility.Observation),
	}
}

func (s *Store) Cycles() store.CycleStore             { return cycleStore{s} }
func (s *Store) Predictions() store.PredictionStore    { return predictionStore{s} }
func (s *Store) Observations() store.ObservationStore  { return observationStore{s} }
func (s *Store) Ping(ctx context.Context) error        { return nil }

type cycleStore struct{ s *Store }

func (c cycleStore) Get(ctx context.Context, id string) (fertility.Cycle, bool, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	v, ok := c.s.cycles[id]
	return v, ok, nil
}

func (c cycleStore) GetByStartDate(ctx context.Context, start time.Time) (fertility.Cycle, bool, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, v := range c.s.cycles {
		if dateutil.Equal(v.StartDate, start) {
			return v, true, nil
		}
	}
	return fertility.Cycle{}, false, nil
}

func (c cycleStore) List(ctx context.Context) ([]fertility.Cycle, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]fertility.Cycle, 0, len(c.s.cycles))
	for _, v := range c.s.cycles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].StartDate, out[j].StartDate) })
	return out, nil
}

func (c cycleStore) Upsert(ctx context.Context, cy fertility.Cycle) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.cycles[cy.ID] = cy
	return nil
}

func (c cycleStore) Delete(ctx context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.cycles, id)
	return nil
}

func (c cycleStore) Clear(ctx context.Context) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.cycles = make(map[string]fertility.Cycle)
	return nil
}

type predictionStore struct{ s *Store }

func (p predictionStore) Get(ctx context.Context, id string) (fertility.Prediction, bool, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	v, ok := p.s.predictions[id]
	return v, ok, nil
}

func (p predictionStore) ListBySource(ctx context.Context, source fertility.Source) ([]fertility.Prediction, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var out []fertility.Prediction
	for _, v := range p.s.predictions {
		if v.Source == source {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].FertileStart, out[j].FertileStart) })
	return out, nil
}

func (p predictionStore) ListByCycle(ctx context.Context, cycleID string) ([]fertility.Prediction, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var out []fertility.Prediction
	for _, v := range p.s.predictions {
		if v.CycleID == cycleID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].FertileStart, out[j].FertileStart) })
	return out, nil
}

func (p predictionStore) List(ctx context.Context) ([]fertility.Prediction, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	out := make([]fertility.Prediction, 0, len(p.s.predictions))
	for _, v := range p.s.predictions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].FertileStart, out[j].FertileStart) })
	return out, nil
}

func (p predictionStore) Upsert(ctx context.Context, pr fertility.Prediction) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.predictions[pr.ID] = pr
	return nil
}

func (p predictionStore) Delete(ctx context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	delete(p.s.predictions, id)
	return nil
}

func (p predictionStore) Clear(ctx context.Context) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.predictions = make(map[string]fertility.Prediction)
	return nil
}

type observationStore struct{ s *Store }

func (o observationStore) Get(ctx context.Context, id string) (fertility.Observation, bool, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	v, ok := o.s.observations[id]
	return v, ok, nil
}

func (o observationStore) ListByDate(ctx context.Context, date time.Time) ([]fertility.Observation, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var out []fertility.Observation
	for _, v := range o.s.observations {
		if dateutil.Equal(v.Date, date) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (o observationStore) ListByKind(ctx context.Context, kind fertility.ObservationKind) ([]fertility.Observation, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var out []fertility.Observation
	for _, v := range o.s.observations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].Date, out[j].Date) })
	return out, nil
}

func (o observationStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]fertility.Observation, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var out []fertility.Observation
	for _, v := range o.s.observations {
		if !dateutil.Before(v.Date, start) && !dateutil.After(v.Date, end) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.Before(out[i].Date, out[j].Date) })
	return out, nil
}

func (o observationStore) List(ctx context.Context) ([]fertility.Observation, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := make([]fertility.Observation, 0, len(o.s.observations))
	for _, v := range o.s.observations {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return dateutil.After(out[i].Date, out[j].Date) })
	return out, nil
}

func (o observationStore) Upsert(ctx context.Context, ob fertility.Observation) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.observations[ob.ID] = ob
	return nil
}

func (o observationStore) Delete(ctx context.Context, id string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	delete(o.s.observations, id)
	return nil
}

func (o observationStore) Clear(ctx context.Context) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.observations = make(map[string]fertility.Observation)
	return nil
}
