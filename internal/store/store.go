// Package store defines the persistence contract consumed by the core:
// three record collections — cycles, predictions, observations — each
// queryable by primary id, by secondary keys, and as an ordered listing;
// writes are single-record upserts and deletes plus a batch clear.
//
// The core itself never imports this package; it is consumed by the HTTP
// and CLI collaborators that materialize inputs before calling into
// internal/reconcile, internal/predict, and internal/csvimport.
package store

import (
	"context"
	"time"

	"github.com/cycletrack/reconciler/internal/fertility"
)

// CycleStore persists Cycle records.
type CycleStore interface {
	Get(ctx context.Context, id string) (fertility.Cycle, bool, error)
	GetByStartDate(ctx context.Context, start time.Time) (fertility.Cycle, bool, error)
	List(ctx context.Context) ([]fertility.Cycle, error) // descending by StartDate
	Upsert(ctx context.Context, c fertility.Cycle) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// PredictionStore persists Prediction records.
type PredictionStore interface {
	Get(ctx context.Context, id string) (fertility.Prediction, bool, error)
	ListBySource(ctx context.Context, source fertility.Source) ([]fertility.Prediction, error)
	ListByCycle(ctx context.Context, cycleID string) ([]fertility.Prediction, error)
	List(ctx context.Context) ([]fertility.Prediction, error) // descending by FertileStart
	Upsert(ctx context.Context, p fertility.Prediction) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// ObservationStore persists Observation records.
type ObservationStore interface {
	Get(ctx context.Context, id string) (fertility.Observation, bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]fertility.Observation, error)
	ListByKind(ctx context.Context, kind fertility.ObservationKind) ([]fertility.Observation, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]fertility.Observation, error)
	List(ctx context.Context) ([]fertility.Observation, error) // descending by Date
	Upsert(ctx context.Context, o fertility.Observation) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Store bundles all three collections behind a single handle, matching the
// practice of wiring one backend-specific struct per storage technology
// and selecting it at
// startup from configuration.
type Store interface {
	Cycles() CycleStore
	Predictions() PredictionStore
	Observations() ObservationStore
	// Ping verifies connectivity for health checks.
	Ping(ctx context.Context) error
}
