package indexstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const vectorStorageDDL = `CREATE TABLE IF NOT EXISTS vector_storage (
    name       TEXT PRIMARY KEY,
    "index"    BLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps index blobs in the vector_storage table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore ensures vector_storage exists and returns a store over db.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("indexstore: db is nil")
	}
	if _, err := db.Exec(vectorStorageDDL); err != nil {
		return nil, fmt.Errorf("indexstore: create vector_storage: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the blob stored under name.
func (s *SQLiteStore) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(name, "index", updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)`, name, data)
	if err != nil {
		return fmt.Errorf("indexstore: save %s: %w", name, err)
	}
	return nil
}

// Load returns the blob stored under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT "index" FROM vector_storage WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("indexstore: load %s: %w", name, err)
	}
	return data, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
