package redisstore

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cycletrack/reconciler/internal/fertility"
	pkgredis "github.com/cycletrack/reconciler/pkg/redis"
)

// fakeClient is an in-memory stand-in for pkg/redis.Client, enough to
// exercise redisstore without a live Redis instance.
type fakeClient struct {
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
	}
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (f *fakeClient) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (f *fakeClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.hashes, k)
		delete(f.zsets, k)
	}
	return nil
}

func (f *fakeClient) HSet(ctx context.Context, key, field string, value interface{}) error {
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	h[field] = value.(string)
	return nil
}

func (f *fakeClient) HGet(ctx context.Context, key, field string) (string, error) {
	h, ok := f.hashes[key]
	if !ok {
		return "", assert.AnError
	}
	v, ok := h[field]
	if !ok {
		return "", assert.AnError
	}
	return v, nil
}

func (f *fakeClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeClient) HDel(ctx context.Context, key, field string) error {
	if h, ok := f.hashes[key]; ok {
		delete(h, field)
	}
	return nil
}

func (f *fakeClient) ZAdd(ctx context.Context, key string, score float64, member interface{}) error {
	z, ok := f.zsets[key]
	if !ok {
		z = make(map[string]float64)
		f.zsets[key] = z
	}
	z[member.(string)] = score
	return nil
}

func (f *fakeClient) ZRem(ctx context.Context, key string, member interface{}) error {
	if z, ok := f.zsets[key]; ok {
		delete(z, member.(string))
	}
	return nil
}

func (f *fakeClient) ZRemRangeByScore(ctx context.Context, key string, min, max string) error {
	return nil
}

func (f *fakeClient) ZCard(ctx context.Context, key string) (int64, error) {
	return int64(len(f.zsets[key])), nil
}

func (f *fakeClient) ZRangeByScoreWithScores(ctx context.Context, key string, min, max float64) ([]pkgredis.ZMember, error) {
	var out []pkgredis.ZMember
	for member, score := range f.zsets[key] {
		if score >= min && score <= max {
			out = append(out, pkgredis.ZMember{Score: score, Member: member})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out, nil
}

func (f *fakeClient) ZRevRangeByScoreWithScores(ctx context.Context, key string, max, min float64, offset, count int64) ([]pkgredis.ZMember, error) {
	var out []pkgredis.ZMember
	for member, score := range f.zsets[key] {
		if score >= min && score <= max {
			out = append(out, pkgredis.ZMember{Score: score, Member: member})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (f *fakeClient) Keys(ctx context.Context, pattern string) ([]string, error) { return nil, nil }
func (f *fakeClient) LPush(ctx context.Context, key string, values ...interface{}) error {
	return nil
}
func (f *fakeClient) LTrim(ctx context.Context, key string, start, stop int64) error { return nil }
func (f *fakeClient) LLen(ctx context.Context, key string) (int64, error)            { return 0, nil }
func (f *fakeClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return nil, nil
}
func (f *fakeClient) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }
func (f *fakeClient) Ping(ctx context.Context) error                                 { return nil }
func (f *fakeClient) Close() error                                                    { return nil }

func TestCycleStoreUpsertGetList(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeClient())

	c1 := fertility.Cycle{ID: "a", StartDate: date(t, "2026-01-01"), Length: 28}
	c2 := fertility.Cycle{ID: "b", StartDate: date(t, "2026-02-01"), Length: 30}

	require.NoError(t, s.Cycles().Upsert(ctx, c1))
	require.NoError(t, s.Cycles().Upsert(ctx, c2))

	got, ok, err := s.Cycles().Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, c1.Length, got.Length)

	list, err := s.Cycles().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID) // descending by start date

	byStart, ok, err := s.Cycles().GetByStartDate(ctx, date(t, "2026-01-01"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", byStart.ID)
}

func TestCycleStoreDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeClient())

	c1 := fertility.Cycle{ID: "a", StartDate: date(t, "2026-01-01"), Length: 28}
	require.NoError(t, s.Cycles().Upsert(ctx, c1))

	require.NoError(t, s.Cycles().Delete(ctx, "a"))
	_, ok, err := s.Cycles().Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	c2 := fertility.Cycle{ID: "b", StartDate: date(t, "2026-02-01"), Length: 30}
	require.NoError(t, s.Cycles().Upsert(ctx, c2))
	require.NoError(t, s.Cycles().Clear(ctx))

	list, err := s.Cycles().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPredictionStoreListBySourceAndCycle(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeClient())

	p1 := fertility.Prediction{ID: "p1", Source: fertility.SourceClue, CycleID: "cyc1", FertileStart: date(t, "2026-01-10"), FertileEnd: date(t, "2026-01-15")}
	p2 := fertility.Prediction{ID: "p2", Source: fertility.SourceFlo, CycleID: "cyc1", FertileStart: date(t, "2026-01-11"), FertileEnd: date(t, "2026-01-16")}
	p3 := fertility.Prediction{ID: "p3", Source: fertility.SourceClue, CycleID: "cyc2", FertileStart: date(t, "2026-02-10"), FertileEnd: date(t, "2026-02-15")}

	require.NoError(t, s.Predictions().Upsert(ctx, p1))
	require.NoError(t, s.Predictions().Upsert(ctx, p2))
	require.NoError(t, s.Predictions().Upsert(ctx, p3))

	bySource, err := s.Predictions().ListBySource(ctx, fertility.SourceClue)
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	byCycle, err := s.Predictions().ListByCycle(ctx, "cyc1")
	require.NoError(t, err)
	assert.Len(t, byCycle, 2)
}

func TestObservationStoreListByDateRangeAndKind(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeClient())

	o1 := fertility.Observation{ID: "o1", Date: date(t, "2026-01-05"), Kind: fertility.KindBBT, BBT: 97.2}
	o2 := fertility.Observation{ID: "o2", Date: date(t, "2026-01-10"), Kind: fertility.KindOPK, OPK: fertility.OPKPositive}
	o3 := fertility.Observation{ID: "o3", Date: date(t, "2026-01-20"), Kind: fertility.KindBBT, BBT: 98.1}

	require.NoError(t, s.Observations().Upsert(ctx, o1))
	require.NoError(t, s.Observations().Upsert(ctx, o2))
	require.NoError(t, s.Observations().Upsert(ctx, o3))

	inRange, err := s.Observations().ListByDateRange(ctx, date(t, "2026-01-01"), date(t, "2026-01-12"))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	byKind, err := s.Observations().ListByKind(ctx, fertility.KindBBT)
	require.NoError(t, err)
	assert.Len(t, byKind, 2)
}

func TestStorePing(t *testing.T) {
	s := New(newFakeClient())
	assert.NoError(t, s.Ping(context.Background()))
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}
