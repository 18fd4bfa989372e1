// Package securestore persists client state as encrypted blobs. It is the
// only component that touches durable storage; everything above it works
// with logical keys and plain Go values.
//
// The store fails closed: if encryption or the underlying store is
// unavailable, nothing is written. Plaintext is never used as a fallback.
package securestore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/cryptobox"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/repository"
)

// namespace prefixes every key this store owns, so Clear can remove relay
// state without touching unrelated entries in a shared database.
const namespace = "cq."

// Store is an encrypted key/value store over a KVStore backend.
type Store struct {
	kv     repository.KVStore
	box    *cryptobox.Box
	logger *slog.Logger
}

// New creates a Store. The box carries the session key; blobs written in a
// previous process are unreadable and get purged on first read.
func New(kv repository.KVStore, box *cryptobox.Box, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, box: box, logger: logger}
}

// SetItem serializes and encrypts value under key. It reports false when
// encryption or the backend fails; callers must treat a later GetItem as
// potentially absent even after a true return.
func (s *Store) SetItem(ctx context.Context, key string, value any) bool {
	blob, err := s.box.Seal(value)
	if err != nil {
		s.logger.Warn("secure store refusing write", "key", key, "error", err)
		return false
	}

	if err := s.kv.Put(ctx, namespace+key, blob); err != nil {
		s.logger.Warn("secure store write failed", "key", key, "error", err)
		return false
	}
	return true
}

// GetItem decrypts the entry under key into out. It reports false for
// missing entries, storage failures, and undecryptable blobs; corrupted
// or foreign-key blobs are deleted so they cannot poison later reads.
func (s *Store) GetItem(ctx context.Context, key string, out any) bool {
	blob, err := s.kv.Get(ctx, namespace+key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("secure store read failed", "key", key, "error", err)
		}
		return false
	}

	if err := s.box.Open(blob, out); err != nil {
		s.logger.Debug("purging undecryptable entry", "key", key, "error", err)
		if delErr := s.kv.Delete(ctx, namespace+key); delErr != nil {
			s.logger.Debug("purge failed", "key", key, "error", delErr)
		}
		return false
	}
	return true
}

// RemoveItem deletes the entry under key.
func (s *Store) RemoveItem(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, namespace+key); err != nil {
		s.logger.Debug("secure store delete failed", "key", key, "error", err)
	}
}

// Clear removes every namespaced entry and nothing else.
func (s *Store) Clear(ctx context.Context) {
	keys, err := s.kv.Keys(ctx, namespace)
	if err != nil {
		s.logger.Debug("secure store clear failed", "error", err)
		return
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.Debug("secure store clear delete failed", "key", key, "error", err)
		}
	}
}
