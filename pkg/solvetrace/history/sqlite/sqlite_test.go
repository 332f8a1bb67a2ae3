package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	r := history.Record{
		ID:        "01J0000000000000000000000A",
		Query:     "x**2 - 5*x + 6 = 0",
		Mode:      "auto",
		Kind:      "solve",
		Result:    []string{"3", "2"},
		Resolved:  true,
		Steps:     []string{"Original equation: x**2 - 5*x + 6 = 0", "Roots: x = 3, 2"},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := st.Append(ctx, r); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := st.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	g := got[0]
	if g.ID != r.ID {
		t.Errorf("ID = %q, want %q", g.ID, r.ID)
	}
	if g.Query != r.Query {
		t.Errorf("Query = %q, want %q", g.Query, r.Query)
	}
	if g.Kind != "solve" {
		t.Errorf("Kind = %q, want %q", g.Kind, "solve")
	}
	if len(g.Result) != 2 || g.Result[0] != "3" || g.Result[1] != "2" {
		t.Errorf("Result = %v, want [3 2]", g.Result)
	}
	if !g.Resolved {
		t.Error("expected Resolved to round-trip as true")
	}
	if len(g.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(g.Steps))
	}
	if !g.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", g.CreatedAt, r.CreatedAt)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	// ULIDs sort lexicographically, so fabricate ascending IDs.
	ids := []string{
		"01J000000000000000000000A1",
		"01J000000000000000000000A2",
		"01J000000000000000000000A3",
	}
	for _, id := range ids {
		r := history.Record{ID: id, Query: "q", Mode: "auto", Kind: "simplify", CreatedAt: time.Now().UTC()}
		if err := st.Append(ctx, r); err != nil {
			t.Fatalf("Append(%s): %v", id, err)
		}
	}

	got, err := st.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != ids[2] || got[1].ID != ids[1] {
		t.Errorf("expected newest first [%s %s], got [%s %s]", ids[2], ids[1], got[0].ID, got[1].ID)
	}
}

func TestEmptySlicesRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	r := history.Record{ID: "01J0000000000000000000000B", Query: "hello", Mode: "auto", Kind: "evaluate", CreatedAt: time.Now().UTC()}
	if err := st.Append(ctx, r); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := st.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if len(got[0].Result) != 0 {
		t.Errorf("expected empty result, got %v", got[0].Result)
	}
	if got[0].Resolved {
		t.Error("expected Resolved false")
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := history.Record{ID: "01J0000000000000000000000C", Query: "2 + 2", Mode: "auto", Kind: "evaluate", Result: []string{"4"}, Resolved: true, CreatedAt: time.Now().UTC()}
	if err := st.Append(ctx, r); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	got, err := st2.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Result[0] != "4" {
		t.Fatalf("expected persisted record with result 4, got %v", got)
	}
}
