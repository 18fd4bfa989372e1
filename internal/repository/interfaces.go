package repository

import "context"

// KVStore manages durable key/value persistence for the secure store.
// Values are opaque blobs; the secure store owns serialization and
// encryption, so nothing below this interface ever sees plaintext.
type KVStore interface {
	Put(ctx context.Context, key, blob string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
