package vector

import (
	"context"
)

// Entry pairs an embedding with the stable label of the catalog item it was
// extracted from (typically a relative image path).
type Entry struct {
	// Label identifies the catalog item. Labels are not required to be unique;
	// inserting the same label twice yields two independent entries.
	Label string

	// Vector is the flattened activation captured for the item.
	Vector []float32
}

// Store defines durable storage for catalog entries. Entries are appended in
// bulk at build time and read back to (re)build an index.
type Store interface {
	// AddEntries appends entries to the catalog.
	AddEntries(ctx context.Context, entries []Entry) error

	// Entries returns all catalog entries in insertion order.
	Entries(ctx context.Context) ([]Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
