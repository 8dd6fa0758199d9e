package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/tatrec/capture"
	"github.com/viant/tatrec/config"
	"github.com/viant/tatrec/engine"
	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/index/bruteforce"
	"github.com/viant/tatrec/index/lsh"
	"github.com/viant/tatrec/indexstore"
	"github.com/viant/tatrec/logging"
	"github.com/viant/tatrec/network"
	"github.com/viant/tatrec/vector"
)

// app wires configuration to the storage, model and index layers.
type app struct {
	cfg *config.Config
}

func (a *app) load(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return nil
}

// openDB opens the catalog database with the vec_* SQL functions available.
func (a *app) openDB() (*sql.DB, error) {
	if err := engine.RegisterVectorFunctions(nil); err != nil {
		return nil, err
	}
	return engine.OpenFile(a.cfg.Database.Path)
}

// session holds the resources a command needs; Close releases them.
type session struct {
	db      *sql.DB
	catalog *vector.SQLiteStore
	indexes indexstore.Store
	closers []func() error
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *app) openSession() (*session, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", a.cfg.Database.Path, err)
	}
	s := &session{db: db, closers: []func() error{db.Close}}
	if s.catalog, err = vector.NewSQLiteStore(db); err != nil {
		_ = s.Close()
		return nil, err
	}
	switch a.cfg.Index.Backend {
	case "badger":
		store, err := indexstore.OpenBadger(a.cfg.Index.BadgerDir)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.indexes = store
		s.closers = append(s.closers, store.Close)
	default:
		store, err := indexstore.NewSQLiteStore(db)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.indexes = store
	}
	return s, nil
}

// newIndex creates an empty index of the configured kind.
func (a *app) newIndex(dim int) (index.Index, error) {
	c := a.cfg.Index
	if c.Kind == "brute" {
		return bruteforce.New(), nil
	}
	return lsh.New(dim,
		lsh.WithHashSize(c.HashSize),
		lsh.WithTables(c.Tables),
		lsh.WithSeed(c.Seed),
		lsh.WithProbeRadius(c.ProbeRadius),
	)
}

func (a *app) model() (*network.Sequential, *network.ImageLoader, error) {
	model, err := network.NewFeatureExtractor(a.cfg.Model.ImageSize)
	if err != nil {
		return nil, nil, err
	}
	return model, network.NewImageLoader(a.cfg.Model.ImageSize), nil
}

// embeddingDim runs a blank image through the model to learn the width of
// the configured layer.
func (a *app) embeddingDim(ctx context.Context, model network.Model) (int, error) {
	size := a.cfg.Model.ImageSize
	blank, err := network.NewTensor([]int{1, network.Channels, size, size}, make([]float32, network.Channels*size*size))
	if err != nil {
		return 0, err
	}
	rows, err := capture.Extract(ctx, model, a.cfg.Model.Layer, blank)
	if err != nil {
		return 0, err
	}
	return len(rows[0]), nil
}
