// Package sqlite is the SQLite-backed journal store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
)

// sqliteStore implements the history.Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite journal with WAL mode enabled, creating the
// schema if needed.
func Open(ctx context.Context, path string) (history.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	mode TEXT NOT NULL,
	kind TEXT NOT NULL,
	result TEXT NOT NULL,
	resolved INTEGER NOT NULL,
	steps TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Append adds a record to the journal.
func (s *sqliteStore) Append(ctx context.Context, r history.Record) error {
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return err
	}
	stepsJSON, err := json.Marshal(r.Steps)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO records (id, query, mode, kind, result, resolved, steps, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, r.ID, r.Query, r.Mode, r.Kind, string(resultJSON), boolToInt(r.Resolved), string(stepsJSON), r.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Recent returns up to limit records, newest first. ULIDs sort
// lexicographically by creation time, so ordering by id is enough.
func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, query, mode, kind, result, resolved, steps, created_at
FROM records
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var r history.Record
		var resultJSON, stepsJSON, created string
		var resolved int
		if err := rows.Scan(&r.ID, &r.Query, &r.Mode, &r.Kind, &resultJSON, &resolved, &stepsJSON, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(stepsJSON), &r.Steps); err != nil {
			return nil, err
		}
		r.Resolved = resolved != 0
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
