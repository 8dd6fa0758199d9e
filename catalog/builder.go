package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/viant/tatrec/capture"
	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/logging"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/vector"
)

// DefaultBatchSize is the number of images per forward pass during a build.
const DefaultBatchSize = 32

// Builder extracts embeddings for catalog images and records them.
type Builder struct {
	Model     network.Model
	Loader    network.Loader
	Layer     string
	Store     vector.Store
	Index     index.Index
	BatchSize int
	// Label derives the stored label from an image path. Defaults to the path.
	Label func(path string) string
	// Exists reports whether a label is already catalogued; Build skips
	// such paths.
	Exists func(label string) bool
}

// Build processes paths in batches and returns the number of entries added.
// Paths whose label Exists are not re-embedded.
// Each batch is committed to the store before it is added to the index.
func (b *Builder) Build(ctx context.Context, paths []string) (int, error) {
	if b.Model == nil || b.Loader == nil || b.Index == nil {
		return 0, fmt.Errorf("catalog: builder needs a model, loader and index")
	}
	size := b.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	label := b.Label
	if label == nil {
		label = func(p string) string { return p }
	}
	if b.Exists != nil {
		before := len(paths)
		paths = slices.DeleteFunc(slices.Clone(paths), func(p string) bool { return b.Exists(label(p)) })
		if skipped := before - len(paths); skipped > 0 {
			logging.Ctx(ctx).Debug().Int("skipped", skipped).Msg("catalog images already present")
		}
	}
	added := 0
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batch := paths[start:end]
		input, err := b.Loader.Load(ctx, batch...)
		if err != nil {
			return added, fmt.Errorf("catalog: load batch %d: %w", start/size, err)
		}
		rows, err := capture.Extract(ctx, b.Model, b.Layer, input)
		if err != nil {
			return added, fmt.Errorf("catalog: extract batch %d: %w", start/size, err)
		}
		if len(rows) != len(batch) {
			return added, fmt.Errorf("catalog: batch %d produced %d rows for %d images", start/size, len(rows), len(batch))
		}
		entries := make([]vector.Entry, len(batch))
		for i, p := range batch {
			entries[i] = vector.Entry{Label: label(p), Vector: rows[i]}
		}
		if b.Store != nil {
			if err := b.Store.AddEntries(ctx, entries); err != nil {
				return added, fmt.Errorf("catalog: store batch %d: %w", start/size, err)
			}
		}
		for _, e := range entries {
			if err := b.Index.Add(e.Vector, e.Label); err != nil {
				return added, fmt.Errorf("catalog: index %s: %w", e.Label, err)
			}
			added++
		}
		logging.Ctx(ctx).Debug().Int("batch", start/size).Int("images", len(batch)).Int("total", added).Msg("catalog batch indexed")
	}
	return added, nil
}
