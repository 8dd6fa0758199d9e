package engine

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./catalog.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }

var filePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// OpenFile opens a file-backed database and applies the pragmas used for the
// catalog: WAL journaling and a busy timeout so a serving process can read
// while an offline build writes.
func OpenFile(path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	for _, p := range filePragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("engine: %s failed: %w", p, err)
		}
	}
	return db, nil
}
