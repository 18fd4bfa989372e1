// Package progress keeps a locally cached endorsement counter roughly
// consistent with the remote source of truth over a transport that cannot
// promise a readable response. The remote value always wins once a
// reconciliation succeeds; local optimistic increments may overcount until
// then, never undercount the server's confirmed state.
package progress

import (
	"context"
	"log/slog"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
)

// Synchronizer is the UI-facing façade over cache, scheduler, and
// transport. Its methods never return errors: a progress display always
// gets some integer.
type Synchronizer struct {
	cache     *Cache
	scheduler *Scheduler
	channel   Channel
	logger    *slog.Logger
}

// NewSynchronizer creates a Synchronizer. scheduler may be nil, in which
// case no opportunistic reconciliation happens on reads.
func NewSynchronizer(cache *Cache, scheduler *Scheduler, channel Channel, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		cache:     cache,
		scheduler: scheduler,
		channel:   channel,
		logger:    logger,
	}
}

// GetCount resolves the best displayable counter value: fresh cache first,
// then a direct round-trip, then the no-TTL fallback, then zero.
func (s *Synchronizer) GetCount(ctx context.Context) int64 {
	if s.scheduler != nil {
		s.scheduler.ForceSync(ctx)
	}

	if value, ok := s.cache.Read(ctx); ok {
		return value
	}

	ack, err := s.channel.DeliverAction(ctx, transport.ActionGetCount)
	if err == nil && ack.Success && ack.Count != nil {
		s.cache.Write(ctx, *ack.Count)
		return *ack.Count
	}
	if err != nil {
		s.logger.Debug("count read unconfirmed", "error", err)
	}

	if value, ok := s.cache.Fallback(ctx); ok {
		return value
	}
	return 0
}

// Increment bumps the counter. When the server acknowledges, its reported
// value wins and is cached. When it does not, the best-known local value
// is optimistically incremented, persisted, and flagged for resync; the
// next successful reconciliation repairs any drift.
func (s *Synchronizer) Increment(ctx context.Context) int64 {
	ack, err := s.channel.DeliverAction(ctx, transport.ActionIncrement)
	if err == nil && ack.Success && ack.Count != nil {
		s.cache.Write(ctx, *ack.Count)
		return *ack.Count
	}
	if err != nil {
		s.logger.Debug("increment unconfirmed, applying locally", "error", err)
	}

	base, ok := s.cache.Read(ctx)
	if !ok {
		base, _ = s.cache.Fallback(ctx)
	}
	next := base + 1
	s.cache.Write(ctx, next)
	s.cache.MarkResyncNeeded(ctx)
	return next
}
