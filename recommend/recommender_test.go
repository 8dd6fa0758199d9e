package recommend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/tatrec/capture"
	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/index/lsh"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/vector"
)

// stubLoader returns a fixed embedding per path as a [1,D] tensor.
type stubLoader map[string][]float32

func (s stubLoader) Load(_ context.Context, paths ...string) (network.Tensor, error) {
	var data []float32
	for _, p := range paths {
		v, ok := s[filepath.Base(p)]
		if !ok {
			return network.Tensor{}, os.ErrNotExist
		}
		data = append(data, v...)
	}
	return network.NewTensor([]int{len(paths), len(data) / len(paths)}, data)
}

// silentModel exposes a layer that is never run.
type silentModel struct{ layer network.Layer }

func (m silentModel) Forward(_ context.Context, in network.Tensor) (network.Tensor, error) {
	return in, nil
}

func (m silentModel) Layer(string) (network.Layer, error) { return m.layer, nil }

func passthrough(t *testing.T) *network.Sequential {
	t.Helper()
	model, err := network.NewSequential(network.Stage{Name: network.FeatureLayer, Fn: network.Flatten()})
	require.NoError(t, err)
	return model
}

func catalogIndex(t *testing.T) *lsh.Index {
	t.Helper()
	idx, err := lsh.New(2, lsh.WithPlanes([][][]float32{{{1, 1}}}))
	require.NoError(t, err)
	for _, e := range []vector.Entry{
		{Label: "catalog/a.jpg", Vector: []float32{1, 1}},
		{Label: "catalog/b.jpg", Vector: []float32{2, 2.1}},
		{Label: "catalog/c.jpg", Vector: []float32{3, 3}},
		{Label: "catalog/d.jpg", Vector: []float32{-1, -1}},
	} {
		require.NoError(t, idx.Add(e.Vector, e.Label))
	}
	return idx
}

func newRecommender(t *testing.T, opts ...Option) *Recommender {
	t.Helper()
	loader := stubLoader{
		"upload.jpg":             {1, 1},
		"tatrec--demo--a.jpg":    {1, 1},
		"tatrec--demo--miss.jpg": {-5, 5},
	}
	base := []Option{
		WithItems(2),
		WithDistance(vector.Euclidean),
		WithResolver(catalog.Resolver{StripPrefix: "catalog/", Root: "/srv/images"}),
	}
	r, err := New(passthrough(t), loader, catalogIndex(t), append(base, opts...)...)
	require.NoError(t, err)
	return r
}

func TestRecommend(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "upload.jpg")
	require.NoError(t, os.WriteFile(upload, []byte("x"), 0o644))

	got, err := newRecommender(t).Recommend(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/images/a.jpg", "/srv/images/b.jpg"}, got)
}

func TestRecommend_SkipsSelfMatch(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "tatrec--demo--a.jpg")
	require.NoError(t, os.WriteFile(upload, []byte("x"), 0o644))

	got, err := newRecommender(t).Recommend(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/images/b.jpg", "/srv/images/c.jpg"}, got)
}

func TestRecommend_EmptyPrefixDisablesSelfMatch(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "tatrec--demo--a.jpg")
	require.NoError(t, os.WriteFile(upload, []byte("x"), 0o644))

	got, err := newRecommender(t, WithTransientPrefix("")).Recommend(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/images/a.jpg", "/srv/images/b.jpg"}, got)
}

func TestRecommend_OnlySelfMatch(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "tatrec--demo--miss.jpg")
	require.NoError(t, os.WriteFile(upload, []byte("x"), 0o644))

	// (-5,5) shares its bucket only with d, which is dropped as the self match.
	got, err := newRecommender(t).Recommend(context.Background(), upload)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_NoFeatures(t *testing.T) {
	layerModel := passthrough(t)
	layer, err := layerModel.Layer(network.FeatureLayer)
	require.NoError(t, err)

	r, err := New(silentModel{layer: layer}, stubLoader{"upload.jpg": {1, 1}}, catalogIndex(t))
	require.NoError(t, err)
	_, err = r.Recommend(context.Background(), filepath.Join(t.TempDir(), "upload.jpg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, capture.ErrNoFeatures), "got %v", err)
}

func TestRecommend_LoadError(t *testing.T) {
	_, err := newRecommender(t).Recommend(context.Background(), filepath.Join(t.TempDir(), "unknown.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_Validation(t *testing.T) {
	model := passthrough(t)
	loader := stubLoader{}
	idx := catalogIndex(t)

	_, err := New(nil, loader, idx)
	assert.Error(t, err)
	_, err = New(model, loader, idx, WithItems(0))
	assert.Error(t, err)
	_, err = New(model, loader, idx, WithDistance(vector.Distance(0)))
	assert.ErrorIs(t, err, vector.ErrUnsupportedDistance)
	_, err = New(model, loader, idx, WithLayer("missing"))
	assert.ErrorIs(t, err, network.ErrLayerNotFound)
}
