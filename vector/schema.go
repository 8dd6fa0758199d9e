package vector

import (
	"database/sql"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL,
    embedding BLOB NOT NULL
);
`

// EnsureSchema creates the catalog table in the provided database if it does
// not already exist. Labels are not unique.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(catalogSchema)
	return err
}
