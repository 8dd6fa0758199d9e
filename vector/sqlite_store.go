package vector

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore is the durable catalog of (label, embedding) entries. It is
// written once by the offline build and read back to rebuild indexes or to
// compute exact rankings in SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the catalog
// schema exists in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddEntries appends entries to the catalog table in a single transaction.
func (s *SQLiteStore) AddEntries(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog(label, embedding) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if len(e.Vector) == 0 {
			return fmt.Errorf("vector: entry %q has an empty embedding", e.Label)
		}
		emb, err := EncodeEmbedding(e.Vector)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.Label, emb); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Entries returns all catalog entries in insertion order.
func (s *SQLiteStore) Entries(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, `SELECT label, embedding FROM catalog ORDER BY id`)
}

// Labels returns the distinct catalog labels.
func (s *SQLiteStore) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT label FROM catalog ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

// Count returns the number of catalog entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&n)
	return n, err
}

// Nearest ranks the whole catalog against query in SQL and returns the n
// closest entries. It is an exhaustive scan, used as ground truth when
// evaluating an approximate index. The vec_* functions must have been
// registered (engine.RegisterVectorFunctions) before the connection opened.
func (s *SQLiteStore) Nearest(ctx context.Context, query []float32, n int, d Distance) ([]Entry, error) {
	var order string
	switch d {
	case Euclidean, TrueEuclidean:
		order = "vec_l2(embedding, ?) ASC"
	case L1Norm:
		order = "vec_l1(embedding, ?) ASC"
	case Cosine:
		order = "vec_cosine(embedding, ?) DESC"
	default:
		return nil, fmt.Errorf("%w: %s is not available in SQL", ErrUnsupportedDistance, d)
	}
	q, err := EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return s.query(ctx, `SELECT label, embedding FROM catalog ORDER BY `+order+`, id`, q)
	}
	return s.query(ctx, `SELECT label, embedding FROM catalog ORDER BY `+order+`, id LIMIT ?`, q, n)
}

func (s *SQLiteStore) query(ctx context.Context, stmt string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var emb []byte
		if err := rows.Scan(&e.Label, &emb); err != nil {
			return nil, err
		}
		if e.Vector, err = DecodeEmbedding(emb); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
