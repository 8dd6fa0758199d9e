package recommend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/viant/tatrec/capture"
	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/logging"
	"github.com/viant/tatrec/metrics"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/vector"
)

// Recommender answers "which catalog images look like this one".
// Recommend calls must not overlap on the same model layer.
type Recommender struct {
	model           network.Model
	loader          network.Loader
	index           index.Index
	layer           string
	items           int
	distance        vector.Distance
	transientPrefix string
	resolver        catalog.Resolver
}

// New creates a Recommender over a loaded index.
func New(model network.Model, loader network.Loader, idx index.Index, opts ...Option) (*Recommender, error) {
	if model == nil || loader == nil || idx == nil {
		return nil, errors.New("recommend: model, loader and index are required")
	}
	r := &Recommender{model: model, loader: loader, index: idx}
	defaults(r)
	for _, opt := range opts {
		opt(r)
	}
	if r.items <= 0 {
		return nil, fmt.Errorf("recommend: items must be positive, got %d", r.items)
	}
	if !r.distance.Valid() {
		return nil, fmt.Errorf("%w: %s", vector.ErrUnsupportedDistance, r.distance)
	}
	if _, err := model.Layer(r.layer); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return r, nil
}

// Recommend returns up to Items resolved paths for the image at imagePath,
// most similar first.
func (r *Recommender) Recommend(ctx context.Context, imagePath string) ([]string, error) {
	start := time.Now()
	paths, stage, err := r.recommend(ctx, imagePath)
	metrics.RecordRecommend(time.Since(start), stage)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("image", imagePath).Str("stage", stage).Msg("recommend failed")
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("image", imagePath).Int("results", len(paths)).Dur("took", time.Since(start)).Msg("recommend")
	return paths, nil
}

func (r *Recommender) recommend(ctx context.Context, imagePath string) ([]string, string, error) {
	input, err := r.loader.Load(ctx, imagePath)
	if err != nil {
		return nil, "load", fmt.Errorf("recommend: load %s: %w", imagePath, err)
	}
	query, stage, err := r.embed(ctx, input)
	if err != nil {
		return nil, stage, err
	}

	selfMatch, err := catalog.ContainsTransient(filepath.Dir(imagePath), r.transientPrefix)
	if err != nil {
		return nil, "load", fmt.Errorf("recommend: scan upload dir: %w", err)
	}
	n := r.items
	if selfMatch {
		n++
	}
	matches, err := r.index.Query(query, n, r.distance)
	if err != nil {
		return nil, "query", fmt.Errorf("recommend: query: %w", err)
	}
	metrics.RecordQuery(r.distance.String(), len(matches))
	if selfMatch && len(matches) > 0 {
		matches = matches[1:]
	}
	logging.Ctx(ctx).Debug().Bool("self_match", selfMatch).Int("requested", n).Int("matches", len(matches)).Msg("index queried")
	return r.resolver.ResolveAll(index.Labels(matches)), "", nil
}

// embed runs the single forward pass and returns the last captured row.
func (r *Recommender) embed(ctx context.Context, input network.Tensor) ([]float32, string, error) {
	layer, err := r.model.Layer(r.layer)
	if err != nil {
		return nil, "forward", fmt.Errorf("recommend: %w", err)
	}
	features := capture.Attach(layer)
	defer func() { _ = features.Detach() }()
	if _, err := r.model.Forward(ctx, input); err != nil {
		return nil, "forward", fmt.Errorf("recommend: forward: %w", err)
	}
	query, err := features.Last()
	if err != nil {
		return nil, "capture", fmt.Errorf("recommend: layer %s: %w", r.layer, err)
	}
	return query, "", nil
}
