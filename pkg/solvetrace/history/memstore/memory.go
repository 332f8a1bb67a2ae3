package memstore

import (
	"context"
	"sync"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
)

// Store is an in-memory implementation of history.Store for tests.
type Store struct {
	mu      sync.RWMutex
	records []history.Record
}

// New creates a new in-memory journal.
func New() *Store {
	return &Store{}
}

// Close implements history.Store.
func (s *Store) Close() error { return nil }

// Append adds a record to the journal.
func (s *Store) Append(ctx context.Context, r history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, copyRecord(r))
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}

	out := make([]history.Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, copyRecord(s.records[i]))
	}
	return out, nil
}

func copyRecord(r history.Record) history.Record {
	r.Result = append([]string(nil), r.Result...)
	r.Steps = append([]string(nil), r.Steps...)
	return r
}
