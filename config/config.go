// Package config loads tatrec settings from layered sources: built-in
// defaults, an optional YAML file and TATREC_* environment variables, in
// increasing priority.
//
// Environment variables map to keys by dropping the TATREC_ prefix and
// splitting section from field at the first underscore:
//
//	TATREC_INDEX_HASH_SIZE=16      -> index.hash_size
//	TATREC_RECOMMEND_DISTANCE=l1norm -> recommend.distance
//	TATREC_CATALOG_EXTENSIONS=.jpg,.png -> catalog.extensions
package config

import (
	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/index/lsh"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/recommend"
)

// Config is the complete tatrec configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Index     IndexConfig     `koanf:"index"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig locates the SQLite catalog database.
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// IndexConfig selects and shapes the query index.
type IndexConfig struct {
	// Kind is lsh (approximate) or brute (exhaustive).
	Kind        string `koanf:"kind" validate:"oneof=lsh brute"`
	Name        string `koanf:"name" validate:"required"`
	HashSize    int    `koanf:"hash_size" validate:"min=1,max=64"`
	Tables      int    `koanf:"tables" validate:"min=1"`
	Seed        uint64 `koanf:"seed"`
	ProbeRadius int    `koanf:"probe_radius" validate:"min=0"`
	// Backend stores serialized indexes in sqlite (vector_storage) or badger.
	Backend   string `koanf:"backend" validate:"oneof=sqlite badger"`
	BadgerDir string `koanf:"badger_dir"`
}

// ModelConfig configures feature extraction.
type ModelConfig struct {
	Layer     string `koanf:"layer" validate:"required"`
	ImageSize int    `koanf:"image_size" validate:"min=4"`
}

// RecommendConfig configures query behaviour.
type RecommendConfig struct {
	Items           int    `koanf:"items" validate:"min=1"`
	Distance        string `koanf:"distance" validate:"required"`
	TransientPrefix string `koanf:"transient_prefix"`
}

// CatalogConfig configures catalog builds and label resolution.
type CatalogConfig struct {
	Extensions  []string `koanf:"extensions"`
	BatchSize   int      `koanf:"batch_size" validate:"min=1"`
	StripPrefix string   `koanf:"strip_prefix"`
	StripSuffix string   `koanf:"strip_suffix"`
	Root        string   `koanf:"root"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "tatrec.sqlite"},
		Index: IndexConfig{
			Kind:     "lsh",
			Name:     "main",
			HashSize: lsh.DefaultHashSize,
			Tables:   lsh.DefaultTables,
			Seed:     lsh.DefaultSeed,
			Backend:  "sqlite",
		},
		Model: ModelConfig{
			Layer:     network.FeatureLayer,
			ImageSize: 64,
		},
		Recommend: RecommendConfig{
			Items:           recommend.DefaultItems,
			Distance:        "hamming",
			TransientPrefix: catalog.DefaultTransientPrefix,
		},
		Catalog: CatalogConfig{
			Extensions: append([]string(nil), catalog.DefaultExtensions...),
			BatchSize:  catalog.DefaultBatchSize,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Resolver returns the label resolver described by the catalog section.
func (c *Config) Resolver() catalog.Resolver {
	return catalog.Resolver{
		StripPrefix: c.Catalog.StripPrefix,
		StripSuffix: c.Catalog.StripSuffix,
		Root:        c.Catalog.Root,
	}
}
