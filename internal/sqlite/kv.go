package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/repository"
)

// KVRepository implements repository.KVStore for SQLite
type KVRepository struct {
	db *DB
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

// Put inserts or replaces an entry
func (r *KVRepository) Put(ctx context.Context, key, blob string) error {
	query := `
		INSERT INTO kv_entries (key, blob, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, key, blob); err != nil {
		return fmt.Errorf("%w: writing entry: %v", repository.ErrUnavailable, err)
	}
	return nil
}

// Get returns the blob stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var blob string
	err := r.db.QueryRowContext(ctx,
		`SELECT blob FROM kv_entries WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading entry: %v", repository.ErrUnavailable, err)
	}
	return blob, nil
}

// Delete removes an entry; deleting a missing key is not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: deleting entry: %v", repository.ErrUnavailable, err)
	}
	return nil
}

// Keys returns all keys beginning with prefix
func (r *KVRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: listing keys: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: scanning key: %v", repository.ErrUnavailable, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating keys: %v", repository.ErrUnavailable, err)
	}
	return keys, nil
}
