// Package pgstore adapts pkg/postgres to the store.Store contract using
// plain SQL, following a raw $N-placeholder query style:
// sql.ErrNoRows mapped to a not-found bool, and fmt.Errorf-wrapped errors.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/store"
	"github.com/cycletrack/reconciler/pkg/postgres"
)

// Store implements store.Store backed by PostgreSQL.
type Store struct {
	client postgres.Client
}

// New wraps a connected postgres.Client as a store.Store.
func New(client postgres.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Cycles() store.CycleStore            { return cycleStore{s} }
func (s *Store) Predictions() store.PredictionStore   { return predictionStore{s} }
func (s *Store) Observations() store.ObservationStore { return observationStore{s} }

func (s *Store) Ping(ctx context.Context) error {
	status, err := s.client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if !status.Connected {
		return fmt.Errorf("pgstore: not connected: %s", status.Error)
	}
	return nil
}

type cycleStore struct{ s *Store }

func (c cycleStore) Get(ctx context.Context, id string) (fertility.Cycle, bool, error) {
	row := c.s.client.QueryRow(ctx, `
		SELECT id, start_date, length, period_length, notes, created_at, updated_at
		FROM cycles WHERE id = $1`, id)
	return scanCycle(row)
}

func (c cycleStore) GetByStartDate(ctx context.Context, start time.Time) (fertility.Cycle, bool, error) {
	row := c.s.client.QueryRow(ctx, `
		SELECT id, start_date, length, period_length, notes, created_at, updated_at
		FROM cycles WHERE start_date = $1`, start)
	return scanCycle(row)
}

func (c cycleStore) List(ctx context.Context) ([]fertility.Cycle, error) {
	rows, err := c.s.client.Query(ctx, `
		SELECT id, start_date, length, period_length, notes, created_at, updated_at
		FROM cycles ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: listing cycles: %w", err)
	}
	defer rows.Close()

	var out []fertility.Cycle
	for rows.Next() {
		var cy fertility.Cycle
		if err := rows.Scan(&cy.ID, &cy.StartDate, &cy.Length, &cy.PeriodLength, &cy.Notes, &cy.CreatedAt, &cy.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scanning cycle row: %w", err)
		}
		out = append(out, cy)
	}
	return out, rows.Err()
}

func (c cycleStore) Upsert(ctx context.Context, cy fertility.Cycle) error {
	now := time.Now()
	if cy.CreatedAt.IsZero() {
		cy.CreatedAt = now
	}
	cy.UpdatedAt = now

	_, err := c.s.client.Exec(ctx, `
		INSERT INTO cycles (id, start_date, length, period_length, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			length = EXCLUDED.length,
			period_length = EXCLUDED.period_length,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		cy.ID, cy.StartDate, cy.Length, cy.PeriodLength, cy.Notes, cy.CreatedAt, cy.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgstore: upserting cycle %s: %w", cy.ID, err)
	}
	return nil
}

func (c cycleStore) Delete(ctx context.Context, id string) error {
	_, err := c.s.client.Exec(ctx, `DELETE FROM cycles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgstore: deleting cycle %s: %w", id, err)
	}
	return nil
}

func (c cycleStore) Clear(ctx context.Context) error {
	_, err := c.s.client.Exec(ctx, `DELETE FROM cycles`)
	if err != nil {
		return fmt.Errorf("pgstore: clearing cycles: %w", err)
	}
	return nil
}

func scanCycle(row *sql.Row) (fertility.Cycle, bool, error) {
	var cy fertility.Cycle
	err := row.Scan(&cy.ID, &cy.StartDate, &cy.Length, &cy.PeriodLength, &cy.Notes, &cy.CreatedAt, &cy.UpdatedAt)
	if err == sql.ErrNoRows {
		return fertility.Cycle{}, false, nil
	}
	if err != nil {
		return fertility.Cycle{}, false, fmt.Errorf("pgstore: scanning cycle: %w", err)
	}
	return cy, true, nil
}

type predictionStore struct{ s *Store }

func (p predictionStore) Get(ctx context.Context, id string) (fertility.Prediction, bool, error) {
	row := p.s.client.QueryRow(ctx, `
		SELECT id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at
		FROM predictions WHERE id = $1`, id)
	return scanPrediction(row)
}

func (p predictionStore) ListBySource(ctx context.Context, source fertility.Source) ([]fertility.Prediction, error) {
	return p.queryList(ctx, `
		SELECT id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at
		FROM predictions WHERE source = $1 ORDER BY fertile_start DESC`, source)
}

func (p predictionStore) ListByCycle(ctx context.Context, cycleID string) ([]fertility.Prediction, error) {
	return p.queryList(ctx, `
		SELECT id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at
		FROM predictions WHERE cycle_id = $1 ORDER BY fertile_start DESC`, cycleID)
}

func (p predictionStore) List(ctx context.Context) ([]fertility.Prediction, error) {
	return p.queryList(ctx, `
		SELECT id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at
		FROM predictions ORDER BY fertile_start DESC`)
}

func (p predictionStore) queryList(ctx context.Context, query string, args ...interface{}) ([]fertility.Prediction, error) {
	rows, err := p.s.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: listing predictions: %w", err)
	}
	defer rows.Close()

	var out []fertility.Prediction
	for rows.Next() {
		pr, err := scanPredictionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p predictionStore) Upsert(ctx context.Context, pr fertility.Prediction) error {
	now := time.Now()
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = now
	}
	pr.UpdatedAt = now

	_, err := p.s.client.Exec(ctx, `
		INSERT INTO predictions (id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			fertile_start = EXCLUDED.fertile_start,
			fertile_end = EXCLUDED.fertile_end,
			ovulation_date = EXCLUDED.ovulation_date,
			confidence = EXCLUDED.confidence,
			cycle_id = EXCLUDED.cycle_id,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		pr.ID, pr.Source, pr.FertileStart, pr.FertileEnd, pr.OvulationDate, pr.Confidence, pr.CycleID, pr.Notes, pr.CreatedAt, pr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgstore: upserting prediction %s: %w", pr.ID, err)
	}
	return nil
}

func (p predictionStore) Delete(ctx context.Context, id string) error {
	_, err := p.s.client.Exec(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgstore: deleting prediction %s: %w", id, err)
	}
	return nil
}

func (p predictionStore) Clear(ctx context.Context) error {
	_, err := p.s.client.Exec(ctx, `DELETE FROM predictions`)
	if err != nil {
		return fmt.Errorf("pgstore: clearing predictions: %w", err)
	}
	return nil
}

func scanPrediction(row *sql.Row) (fertility.Prediction, bool, error) {
	var pr fertility.Prediction
	var ovulation sql.NullTime
	err := row.Scan(&pr.ID, &pr.Source, &pr.FertileStart, &pr.FertileEnd, &ovulation, &pr.Confidence, &pr.CycleID, &pr.Notes, &pr.CreatedAt, &pr.UpdatedAt)
	if err == sql.ErrNoRows {
		return fertility.Prediction{}, false, nil
	}
	if err != nil {
		return fertility.Prediction{}, false, fmt.Errorf("pgstore: scanning prediction: %w", err)
	}
	if ovulation.Valid {
		pr.OvulationDate = &ovulation.Time
	}
	return pr, true, nil
}

// rowScanner abstracts over *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPredictionRow(r rowScanner) (fertility.Prediction, error) {
	var pr fertility.Prediction
	var ovulation sql.NullTime
	err := r.Scan(&pr.ID, &pr.Source, &pr.FertileStart, &pr.FertileEnd, &ovulation, &pr.Confidence, &pr.CycleID, &pr.Notes, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return fertility.Prediction{}, fmt.Errorf("pgstore: scanning prediction row: %w", err)
	}
	if ovulation.Valid {
		pr.OvulationDate = &ovulation.Time
	}
	return pr, nil
}

type observationStore struct{ s *Store }

func (o observationStore) Get(ctx context.Context, id string) (fertility.Observation, bool, error) {
	row := o.s.client.QueryRow(ctx, `
		SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at
		FROM observations WHERE id = $1`, id)
	return scanObservation(row)
}

func (o observationStore) ListByDate(ctx context.Context, date time.Time) ([]fertility.Observation, error) {
	return o.queryList(ctx, `
		SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at
		FROM observations WHERE date = $1 ORDER BY date DESC`, date)
}

func (o observationStore) ListByKind(ctx context.Context, kind fertility.ObservationKind) ([]fertility.Observation, error) {
	return o.queryList(ctx, `
		SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at
		FROM observations WHERE kind = $1 ORDER BY date DESC`, kind)
}

func (o observationStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]fertility.Observation, error) {
	return o.queryList(ctx, `
		SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at
		FROM observations WHERE date >= $1 AND date <= $2 ORDER BY date DESC`, start, end)
}

func (o observationStore) List(ctx context.Context) ([]fertility.Observation, error) {
	return o.queryList(ctx, `
		SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at
		FROM observations ORDER BY date DESC`)
}

func (o observationStore) queryList(ctx context.Context, query string, args ...interface{}) ([]fertility.Observation, error) {
	rows, err := o.s.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: listing observations: %w", err)
	}
	defer rows.Close()

	var out []fertility.Observation
	for rows.Next() {
		var ob fertility.Observation
		if err := rows.Scan(&ob.ID, &ob.Date, &ob.Kind, &ob.CervicalMucus, &ob.BBT, &ob.BBTTimeOfDay, &ob.OPK, &ob.SymptomTag, &ob.SymptomSev, &ob.Notes, &ob.CreatedAt, &ob.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scanning observation row: %w", err)
		}
		out = append(out, ob)
	}
	return out, rows.Err()
}

func (o observationStore) Upsert(ctx context.Context, ob fertility.Observation) error {
	now := time.Now()
	if ob.CreatedAt.IsZero() {
		ob.CreatedAt = now
	}
	ob.UpdatedAt = now

	_, err := o.s.client.Exec(ctx, `
		INSERT INTO observations (id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			kind = EXCLUDED.kind,
			cervical_mucus = EXCLUDED.cervical_mucus,
			bbt = EXCLUDED.bbt,
			bbt_time_of_day = EXCLUDED.bbt_time_of_day,
			opk = EXCLUDED.opk,
			symptom_tag = EXCLUDED.symptom_tag,
			symptom_sev = EXCLUDED.symptom_sev,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		ob.ID, ob.Date, ob.Kind, ob.CervicalMucus, ob.BBT, ob.BBTTimeOfDay, ob.OPK, ob.SymptomTag, ob.SymptomSev, ob.Notes, ob.CreatedAt, ob.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgstore: upserting observation %s: %w", ob.ID, err)
	}
	return nil
}

func (o observationStore) Delete(ctx context.Context, id string) error {
	_, err := o.s.client.Exec(ctx, `DELETE FROM observations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgstore: deleting observation %s: %w", id, err)
	}
	return nil
}

func (o observationStore) Clear(ctx context.Context) error {
	_, err := o.s.client.Exec(ctx, `DELETE FROM observations`)
	if err != nil {
		return fmt.Errorf("pgstore: clearing observations: %w", err)
	}
	return nil
}

func scanObservation(row *sql.Row) (fertility.Observation, bool, error) {
	var ob fertility.Observation
	err := row.Scan(&ob.ID, &ob.Date, &ob.Kind, &ob.CervicalMucus, &ob.BBT, &ob.BBTTimeOfDay, &ob.OPK, &ob.SymptomTag, &ob.SymptomSev, &ob.Notes, &ob.CreatedAt, &ob.UpdatedAt)
	if err == sql.ErrNoRows {
		return fertility.Observation{}, false, nil
	}
	if err != nil {
		return fertility.Observation{}, false, fmt.Errorf("pgstore: scanning observation: %w", err)
	}
	return ob, true, nil
}
