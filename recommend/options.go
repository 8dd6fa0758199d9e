package recommend

import (
	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/vector"
)

// DefaultItems is the number of recommendations returned.
const DefaultItems = 5

// Option configures a Recommender.
type Option func(*Recommender)

// WithLayer sets the layer whose output is the query embedding.
func WithLayer(name string) Option {
	return func(r *Recommender) { r.layer = name }
}

// WithItems sets the number of recommendations.
func WithItems(n int) Option {
	return func(r *Recommender) { r.items = n }
}

// WithDistance sets the ranking distance.
func WithDistance(d vector.Distance) Option {
	return func(r *Recommender) { r.distance = d }
}

// WithTransientPrefix sets the file name prefix marking a self-matching
// upload. An empty prefix disables the check.
func WithTransientPrefix(prefix string) Option {
	return func(r *Recommender) { r.transientPrefix = prefix }
}

// WithResolver sets how labels become paths.
func WithResolver(resolver catalog.Resolver) Option {
	return func(r *Recommender) { r.resolver = resolver }
}

func defaults(r *Recommender) {
	r.layer = network.FeatureLayer
	r.items = DefaultItems
	r.distance = vector.Hamming
	r.transientPrefix = catalog.DefaultTransientPrefix
}
