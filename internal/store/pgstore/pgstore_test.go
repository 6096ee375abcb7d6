package pgstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/pkg/postgres"
)

// fakeClient adapts a *sql.DB (backed by sqlmock) to postgres.Client with
// no-op connection lifecycle methods, which pgstore never calls.
type fakeClient struct {
	db *sql.DB
}

func (f *fakeClient) Connect(ctx context.Context) error { return nil }
func (f *fakeClient) Disconnect() error                 { return nil }

func (f *fakeClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return f.db.ExecContext(ctx, query, args...)
}

func (f *fakeClient) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return f.db.QueryContext(ctx, query, args...)
}

func (f *fakeClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return f.db.QueryRowContext(ctx, query, args...)
}

func (f *fakeClient) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (f *fakeClient) HealthCheck(ctx context.Context) (*postgres.HealthStatus, error) {
	if err := f.db.PingContext(ctx); err != nil {
		return &postgres.HealthStatus{Connected: false, Error: err.Error()}, nil
	}
	return &postgres.HealthStatus{Connected: true}, nil
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(&fakeClient{db: db}), mock
}

func TestCycleStoreGetFound(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "start_date", "length", "period_length", "notes", "created_at", "updated_at"}).
		AddRow("c1", now, 28, 5, "", now, now)
	mock.ExpectQuery("SELECT id, start_date, length, period_length, notes, created_at, updated_at").
		WithArgs("c1").
		WillReturnRows(rows)

	cy, ok, err := store.Cycles().Get(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 28, cy.Length)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCycleStoreGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, start_date, length, period_length, notes, created_at, updated_at").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.Cycles().Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCycleStoreUpsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO cycles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cy := fertility.Cycle{ID: "c1", StartDate: time.Now(), Length: 28, PeriodLength: 5}
	require.NoError(t, store.Cycles().Upsert(context.Background(), cy))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionStoreUpsertAndGetWithNilOvulation(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO predictions").WillReturnResult(sqlmock.NewResult(0, 1))

	pr := fertility.Prediction{
		ID:           "p1",
		Source:       fertility.SourceClue,
		FertileStart: now,
		FertileEnd:   now.AddDate(0, 0, 5),
		Confidence:   80,
	}
	require.NoError(t, store.Predictions().Upsert(context.Background(), pr))

	rows := sqlmock.NewRows([]string{"id", "source", "fertile_start", "fertile_end", "ovulation_date", "confidence", "cycle_id", "notes", "created_at", "updated_at"}).
		AddRow("p1", "clue", now, now.AddDate(0, 0, 5), nil, 80, "", "", now, now)
	mock.ExpectQuery("SELECT id, source, fertile_start, fertile_end, ovulation_date, confidence, cycle_id, notes, created_at, updated_at").
		WithArgs("p1").
		WillReturnRows(rows)

	got, ok, err := store.Predictions().Get(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.OvulationDate)
	assert.Equal(t, 80, got.Confidence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationStoreListByKind(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "date", "kind", "cervical_mucus", "bbt", "bbt_time_of_day", "opk", "symptom_tag", "symptom_sev", "notes", "created_at", "updated_at"}).
		AddRow("o1", now, "bbt", "", 97.4, "", "", "", 0, "", now, now)
	mock.ExpectQuery("SELECT id, date, kind, cervical_mucus, bbt, bbt_time_of_day, opk, symptom_tag, symptom_sev, notes, created_at, updated_at").
		WithArgs("bbt").
		WillReturnRows(rows)

	got, err := store.Observations().ListByKind(context.Background(), fertility.KindBBT)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 97.4, got[0].BBT)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectPing()

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
