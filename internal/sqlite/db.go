package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Local relay store; a single writer avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	return &DB{db}, nil
}

// RunMigrations creates the relay schema. The store is a flat key/value
// table: values are encrypted blobs owned by the secure store, so the
// schema carries no structure beyond the key.
func (db *DB) RunMigrations() error {
	migration := `
-- Encrypted key/value entries (the durable-storage analog)
CREATE TABLE IF NOT EXISTS kv_entries (
    key TEXT PRIMARY KEY,
    blob TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_kv_updated ON kv_entries(updated_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
