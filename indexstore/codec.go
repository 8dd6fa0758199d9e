package indexstore

import (
	"context"
	"fmt"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/index/bruteforce"
	"github.com/viant/tatrec/index/lsh"
)

// Decode restores an index from a blob, choosing the implementation by the
// blob's kind: LSH blobs carry a magic prefix, anything else is read as a
// brute-force index.
func Decode(data []byte) (index.Index, error) {
	if lsh.IsBlob(data) {
		idx := &lsh.Index{}
		if err := idx.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return idx, nil
	}
	idx := bruteforce.New()
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return idx, nil
}

// Persist serializes idx and saves it under name.
func Persist(ctx context.Context, store Store, name string, idx index.Index) error {
	data, err := idx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("indexstore: marshal %s: %w", name, err)
	}
	return store.Save(ctx, name, data)
}

// Open loads and decodes the index stored under name.
func Open(ctx context.Context, store Store, name string) (index.Index, error) {
	data, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	idx, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("indexstore: decode %s: %w", name, err)
	}
	return idx, nil
}
