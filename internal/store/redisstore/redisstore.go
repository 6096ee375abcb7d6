// Package redisstore adapts pkg/redis (a go-redis wrapper) to
// the store.Store contract, using one hash per record (JSON body) and one
// sorted set per collection ordering ids by primary-date score, following
// a sorted-set-by-score-range pattern.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/store"
	pkgredis "github.com/cycletrack/reconciler/pkg/redis"
)

const bodyField = "body"

// Store implements store.Store backed by Redis.
type Store struct {
	client pkgredis.Client
}

// New wraps an existing Redis client as a store.Store.
func New(client pkgredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Cycles() store.CycleStore            { return cycleStore{s} }
func (s *Store) Predictions() store.PredictionStore   { return predictionStore{s} }
func (s *Store) Observations() store.ObservationStore { return observationStore{s} }

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

type cycleStore struct{ s *Store }

func (c cycleStore) Get(ctx context.Context, id string) (fertility.Cycle, bool, error) {
	var v fertility.Cycle
	ok, err := getJSON(ctx, c.s.client, cycleHashKey(id), &v)
	return v, ok, err
}

func (c cycleStore) GetByStartDate(ctx context.Context, start time.Time) (fertility.Cycle, bool, error) {
	all, err := c.List(ctx)
	if err != nil {
		return fertility.Cycle{}, false, err
	}
	for _, v := range all {
		if v.StartDate.Equal(start) {
			return v, true, nil
		}
	}
	return fertility.Cycle{}, false, nil
}

func (c cycleStore) List(ctx context.Context) ([]fertility.Cycle, error) {
	ids, err := idsDescending(ctx, c.s.client, cycleIndexKey())
	if err != nil {
		return nil, err
	}
	out := make([]fertility.Cycle, 0, len(ids))
	for _, id := range ids {
		var v fertility.Cycle
		if ok, err := getJSON(ctx, c.s.client, cycleHashKey(id), &v); err == nil && ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c cycleStore) Upsert(ctx context.Context, cy fertility.Cycle) error {
	if err := putJSON(ctx, c.s.client, cycleHashKey(cy.ID), cy); err != nil {
		return err
	}
	return c.s.client.ZAdd(ctx, cycleIndexKey(), float64(cy.StartDate.Unix()), cy.ID)
}

func (c cycleStore) Delete(ctx context.Context, id string) error {
	if err := c.s.client.Del(ctx, cycleHashKey(id)); err != nil {
		return err
	}
	return c.s.client.ZRem(ctx, cycleIndexKey(), id)
}

func (c cycleStore) Clear(ctx context.Context) error {
	return clearCollection(ctx, c.s.client, cycleIndexKey(), cycleHashKey)
}

type predictionStore struct{ s *Store }

func (p predictionStore) Get(ctx context.Context, id string) (fertility.Prediction, bool, error) {
	var v fertility.Prediction
	ok, err := getJSON(ctx, p.s.client, predictionHashKey(id), &v)
	return v, ok, err
}

func (p predictionStore) ListBySource(ctx context.Context, source fertility.Source) ([]fertility.Prediction, error) {
	all, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []fertility.Prediction
	for _, v := range all {
		if v.Source == source {
			out = append(out, v)
		}
	}
	return out, nil
}

func (p predictionStore) ListByCycle(ctx context.Context, cycleID string) ([]fertility.Prediction, error) {
	all, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []fertility.Prediction
	for _, v := range all {
		if v.CycleID == cycleID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (p predictionStore) List(ctx context.Context) ([]fertility.Prediction, error) {
	ids, err := idsDescending(ctx, p.s.client, predictionIndexKey())
	if err != nil {
		return nil, err
	}
	out := make([]fertility.Prediction, 0, len(ids))
	for _, id := range ids {
		var v fertility.Prediction
		if ok, err := getJSON(ctx, p.s.client, predictionHashKey(id), &v); err == nil && ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (p predictionStore) Upsert(ctx context.Context, pr fertility.Prediction) error {
	if err := putJSON(ctx, p.s.client, predictionHashKey(pr.ID), pr); err != nil {
		return err
	}
	return p.s.client.ZAdd(ctx, predictionIndexKey(), float64(pr.FertileStart.Unix()), pr.ID)
}

func (p predictionStore) Delete(ctx context.Context, id string) error {
	if err := p.s.client.Del(ctx, predictionHashKey(id)); err != nil {
		return err
	}
	return p.s.client.ZRem(ctx, predictionIndexKey(), id)
}

func (p predictionStore) Clear(ctx context.Context) error {
	return clearCollection(ctx, p.s.client, predictionIndexKey(), predictionHashKey)
}

type observationStore struct{ s *Store }

func (o observationStore) Get(ctx context.Context, id string) (fertility.Observation, bool, error) {
	var v fertility.Observation
	ok, err := getJSON(ctx, o.s.client, observationHashKey(id), &v)
	return v, ok, err
}

func (o observationStore) ListByDate(ctx context.Context, date time.Time) ([]fertility.Observation, error) {
	all, err := o.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []fertility.Observation
	for _, v := range all {
		if v.Date.Equal(date) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (o observationStore) ListByKind(ctx context.Context, kind fertility.ObservationKind) ([]fertility.Observation, error) {
	all, err := o.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []fertility.Observation
	for _, v := range all {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out, nil
}

func (o observationStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]fertility.Observation, error) {
	ids, err := idsInScoreRange(ctx, o.s.client, observationIndexKey(), float64(start.Unix()), float64(end.Unix()))
	if err != nil {
		return nil, err
	}
	out := make([]fertility.Observation, 0, len(ids))
	for _, id := range ids {
		var v fertility.Observation
		if ok, err := getJSON(ctx, o.s.client, observationHashKey(id), &v); err == nil && ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (o observationStore) List(ctx context.Context) ([]fertility.Observation, error) {
	ids, err := idsDescending(ctx, o.s.client, observationIndexKey())
	if err != nil {
		return nil, err
	}
	out := make([]fertility.Observation, 0, len(ids))
	for _, id := range ids {
		var v fertility.Observation
		if ok, err := getJSON(ctx, o.s.client, observationHashKey(id), &v); err == nil && ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (o observationStore) Upsert(ctx context.Context, ob fertility.Observation) error {
	if err := putJSON(ctx, o.s.client, observationHashKey(ob.ID), ob); err != nil {
		return err
	}
	return o.s.client.ZAdd(ctx, observationIndexKey(), float64(ob.Date.Unix()), ob.ID)
}

func (o observationStore) Delete(ctx context.Context, id string) error {
	if err := o.s.client.Del(ctx, observationHashKey(id)); err != nil {
		return err
	}
	return o.s.client.ZRem(ctx, observationIndexKey(), id)
}

func (o observationStore) Clear(ctx context.Context) error {
	return clearCollection(ctx, o.s.client, observationIndexKey(), observationHashKey)
}

func putJSON(ctx context.Context, client pkgredis.Client, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redisstore: marshaling %s: %w", key, err)
	}
	return client.HSet(ctx, key, bodyField, string(data))
}

func getJSON(ctx context.Context, client pkgredis.Client, key string, dest interface{}) (bool, error) {
	raw, err := client.HGet(ctx, key, bodyField)
	if err != nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("redisstore: unmarshaling %s: %w", key, err)
	}
	return true, nil
}

func idsDescending(ctx context.Context, client pkgredis.Client, indexKey string) ([]string, error) {
	members, err := client.ZRevRangeByScoreWithScores(ctx, indexKey, math.Inf(1), math.Inf(-1), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("redisstore: listing %s: %w", indexKey, err)
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.Member
	}
	return ids, nil
}

func idsInScoreRange(ctx context.Context, client pkgredis.Client, indexKey string, min, max float64) ([]string, error) {
	members, err := client.ZRangeByScoreWithScores(ctx, indexKey, min, max)
	if err != nil {
		return nil, fmt.Errorf("redisstore: ranging %s: %w", indexKey, err)
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.Member
	}
	return ids, nil
}

func clearCollection(ctx context.Context, client pkgredis.Client, indexKey string, hashKey func(string) string) error {
	ids, err := idsDescending(ctx, client, indexKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := client.Del(ctx, hashKey(id)); err != nil {
			return err
		}
	}
	return client.Del(ctx, indexKey)
}
