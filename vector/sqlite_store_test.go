package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/viant/tatrec/engine"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	if err := engine.RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	// A single connection keeps every statement on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func TestSQLiteStore_AddEntriesAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Label: "a.jpg", Vector: []float32{0, 0}},
		{Label: "b.jpg", Vector: []float32{0, 1}},
		{Label: "a.jpg", Vector: []float32{10, 10}},
	}
	if err := store.AddEntries(ctx, entries); err != nil {
		t.Fatalf("AddEntries failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}

	got, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Entries returned %d, want 3", len(got))
	}
	for i := range entries {
		if got[i].Label != entries[i].Label {
			t.Errorf("entry %d label = %q, want %q", i, got[i].Label, entries[i].Label)
		}
		if got[i].Vector[1] != entries[i].Vector[1] {
			t.Errorf("entry %d vector = %v, want %v", i, got[i].Vector, entries[i].Vector)
		}
	}

	labels, err := store.Labels(ctx)
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	if len(labels) != 2 || labels[0] != "a.jpg" || labels[1] != "b.jpg" {
		t.Fatalf("Labels = %v, want [a.jpg b.jpg]", labels)
	}
}

func TestSQLiteStore_RejectsEmptyEmbedding(t *testing.T) {
	store := newTestStore(t)
	if err := store.AddEntries(context.Background(), []Entry{{Label: "x"}}); err == nil {
		t.Fatalf("expected error for empty embedding")
	}
}

func TestSQLiteStore_Nearest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.AddEntries(ctx, []Entry{
		{Label: "far", Vector: []float32{10, 10}},
		{Label: "origin", Vector: []float32{0, 0}},
		{Label: "up", Vector: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("AddEntries failed: %v", err)
	}

	got, err := store.Nearest(ctx, []float32{0, 0.1}, 2, TrueEuclidean)
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if len(got) != 2 || got[0].Label != "origin" || got[1].Label != "up" {
		t.Fatalf("Nearest = %v, want [origin up]", got)
	}

	got, err = store.Nearest(ctx, []float32{1, 1}, 1, Cosine)
	if err != nil {
		t.Fatalf("Nearest(cosine) failed: %v", err)
	}
	if len(got) != 1 || got[0].Label != "far" {
		t.Fatalf("Nearest(cosine) = %v, want [far]", got)
	}

	if _, err := store.Nearest(ctx, []float32{0, 0}, 1, Hamming); !errors.Is(err, ErrUnsupportedDistance) {
		t.Fatalf("Nearest(hamming) error = %v, want ErrUnsupportedDistance", err)
	}
}
