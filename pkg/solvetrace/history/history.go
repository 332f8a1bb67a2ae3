// Package history records answered queries for later inspection. The
// journal is append-only and is never consulted while answering a
// query; a nil Store means journaling is disabled.
package history

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/solvetrace/solvetrace/pkg/solvetrace"
)

// Record is one journaled query and its outcome.
type Record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Mode      string    `json:"mode"`
	Kind      string    `json:"kind"`
	Result    []string  `json:"result"`
	Resolved  bool      `json:"resolved"`
	Steps     []string  `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the journal backend.
type Store interface {
	// Close releases any resources held by the store.
	Close() error

	// Append adds a record to the journal.
	Append(ctx context.Context, r Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// NewRecord builds a journal record from a query and the outcome it
// produced. The ID is a ULID, so records sort by creation time.
func NewRecord(query, mode string, out solvetrace.Outcome) Record {
	return Record{
		ID:        ulid.Make().String(),
		Query:     query,
		Mode:      mode,
		Kind:      out.Op.String(),
		Result:    append([]string(nil), out.Values...),
		Resolved:  out.Form != solvetrace.Absent,
		Steps:     append([]string(nil), out.Steps...),
		CreatedAt: time.Now().UTC(),
	}
}
