package indexstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "index:"

// BadgerStore keeps index blobs in a Badger key-value store.
type BadgerStore struct {
	db    *badger.DB
	owned bool
}

// NewBadgerStore wraps an already opened Badger database. The caller keeps
// ownership of db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadger opens (or creates) a Badger database in dir. Close releases it.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("indexstore: open badger %s: %w", dir, err)
	}
	return &BadgerStore{db: db, owned: true}, nil
}

// Save replaces the blob stored under name.
func (s *BadgerStore) Save(_ context.Context, name string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerKeyPrefix+name), data); err != nil {
			return fmt.Errorf("indexstore: save %s: %w", name, err)
		}
		return nil
	})
}

// Load returns the blob stored under name.
func (s *BadgerStore) Load(_ context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("indexstore: load %s: %w", name, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close releases the database when it was opened by OpenBadger.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Ensure BadgerStore satisfies the Store interface.
var _ Store = (*BadgerStore)(nil)
