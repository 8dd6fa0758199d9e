package indexstore

import (
	"context"
	"fmt"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/vector"
)

// Fill adds every catalog entry to idx in catalog order and returns the
// number of entries added.
func Fill(ctx context.Context, catalog vector.Store, idx index.Index) (int, error) {
	entries, err := catalog.Entries(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range entries {
		if len(e.Vector) == 0 {
			continue
		}
		if err := idx.Add(e.Vector, e.Label); err != nil {
			return added, fmt.Errorf("entry %q: %w", e.Label, err)
		}
		added++
	}
	return added, nil
}

// Reindex fills the empty index idx from the catalog and persists it under
// name. It returns the number of entries indexed.
func Reindex(ctx context.Context, catalog vector.Store, idx index.Index, store Store, name string) (int, error) {
	if idx.Len() != 0 {
		return 0, fmt.Errorf("indexstore: reindex %s: target index already holds %d entries", name, idx.Len())
	}
	n, err := Fill(ctx, catalog, idx)
	if err != nil {
		return 0, fmt.Errorf("indexstore: reindex %s: %w", name, err)
	}
	if err := Persist(ctx, store, name, idx); err != nil {
		return 0, err
	}
	return n, nil
}
