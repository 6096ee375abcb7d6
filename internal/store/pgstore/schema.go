package pgstore

import "context"

// schema holds the tables the store needs, created idempotently on startup
// rather than through an external migration tool.
const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id            TEXT PRIMARY KEY,
	start_date    DATE NOT NULL,
	length        INTEGER NOT NULL,
	period_length INTEGER NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS cycles_start_date_idx ON cycles (start_date);

CREATE TABLE IF NOT EXISTS predictions (
	id              TEXT PRIMARY KEY,
	source          TEXT NOT NULL,
	fertile_start   DATE NOT NULL,
	fertile_end     DATE NOT NULL,
	ovulation_date  DATE,
	confidence      INTEGER NOT NULL,
	cycle_id        TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS predictions_source_idx ON predictions (source);
CREATE INDEX IF NOT EXISTS predictions_cycle_id_idx ON predictions (cycle_id);

CREATE TABLE IF NOT EXISTS observations (
	id              TEXT PRIMARY KEY,
	date            DATE NOT NULL,
	kind            TEXT NOT NULL,
	cervical_mucus  TEXT NOT NULL DEFAULT '',
	bbt             DOUBLE PRECISION NOT NULL DEFAULT 0,
	bbt_time_of_day TEXT NOT NULL DEFAULT '',
	opk             TEXT NOT NULL DEFAULT '',
	symptom_tag     TEXT NOT NULL DEFAULT '',
	symptom_sev     INTEGER NOT NULL DEFAULT 0,
	notes           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS observations_date_idx ON observations (date);
CREATE INDEX IF NOT EXISTS observations_kind_idx ON observations (kind);
`

// EnsureSchema creates the store's tables if they don't already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.client.Exec(ctx, schema)
	return err
}
