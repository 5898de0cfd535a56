package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const sqliteStoreName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	seq              INTEGER PRIMARY KEY,
	id               TEXT NOT NULL,
	item_id          TEXT NOT NULL,
	ts               TEXT NOT NULL,
	interaction_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_item ON interactions(item_id);
`

// SQLiteStore keeps the history in an SQLite table, one row per event,
// ordered by insertion sequence.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := newSettings(opts)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrOpenStore, path, err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", ErrOpenStore, err)
	}
	return &SQLiteStore{db: db, log: s.log.Named("sqlite_store")}, nil
}

// Load reads every row in sequence order. Query failures yield an empty
// history.
func (s *SQLiteStore) Load(ctx context.Context) []model.InteractionEvent {
	start := time.Now()
	events, err := s.load(ctx)
	metrics.RecordPersistence(sqliteStoreName, "load", sinceMs(start))
	if err != nil {
		metrics.RecordPersistenceError(sqliteStoreName, "load")
		s.log.Warn(ctx, "discarding unreadable interactions table", logger.Error(err))
		return []model.InteractionEvent{}
	}
	return events
}

// Save replaces the table contents with events in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, events []model.InteractionEvent) {
	start := time.Now()
	err := s.save(ctx, events)
	metrics.RecordPersistence(sqliteStoreName, "save", sinceMs(start))
	if err != nil {
		metrics.RecordPersistenceError(sqliteStoreName, "save")
		s.log.Error(ctx, "failed to save interactions", logger.Int("events", len(events)), logger.Error(err))
	}
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) load(ctx context.Context) ([]model.InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, ts, interaction_type FROM interactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	events := []model.InteractionEvent{}
	for rows.Next() {
		var r record
		var ts string
		if err := rows.Scan(&r.ID, &r.ItemID, &ts, &r.InteractionType); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		events = append(events, r.event())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}

func (s *SQLiteStore) save(ctx context.Context, events []model.InteractionEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interactions`); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO interactions (seq, id, item_id, ts, interaction_type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, ev := range events {
		r := toRecord(ev)
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.ItemID, r.Timestamp.Format(time.RFC3339Nano), r.InteractionType); err != nil {
			return fmt.Errorf("insert interaction %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
