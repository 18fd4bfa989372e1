package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
)

// DefaultSyncInterval is how often reconciliation runs, and also the
// minimum spacing between attempts across instances (via the persisted
// sync marker).
const DefaultSyncInterval = 2 * time.Minute

// Scheduler reconciles the cached counter against the remote source of
// truth. It has two states, idle and reconciling; attempts within one
// process are serialized, and the persisted sync marker spaces attempts
// across processes.
type Scheduler struct {
	cache    *Cache
	channel  Channel
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	reconciling bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates a Scheduler. Call Start to begin the periodic loop;
// ForceSync works without Start.
func NewScheduler(cache *Cache, channel Channel, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cache:    cache,
		channel:  channel,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the periodic reconciliation loop. The scheduler owns its
// ticker; Stop tears it down, so no free-running timer outlives the host.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.ForceSync(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the periodic loop and waits for it to exit. Safe to call more
// than once, and safe without a prior Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
	case <-time.After(time.Second):
	}
}

// ForceSync runs one reconciliation attempt. Overlapping calls coalesce:
// while one attempt is in flight, others return immediately. Failures are
// logged, never returned; the UI path must not see them.
func (s *Scheduler) ForceSync(ctx context.Context) {
	if !s.begin() {
		return
	}
	defer s.end()

	if last, ok := s.cache.LastSync(ctx); ok && s.now().Sub(last) < s.interval {
		return
	}

	// The marker moves on every attempt, success or failure, so a broken
	// endpoint does not produce a tight retry loop.
	defer s.cache.TouchSync(ctx)

	ack, err := s.channel.DeliverAction(ctx, transport.ActionSyncCheck)
	if err != nil {
		s.logger.Debug("reconciliation unconfirmed", "error", err)
		return
	}
	if !ack.Success {
		s.logger.Debug("reconciliation rejected by endpoint")
		return
	}

	authoritative := ack.ActualCount
	if authoritative == nil {
		authoritative = ack.Count
	}
	if authoritative == nil {
		s.logger.Debug("reconciliation ack carried no count")
		return
	}

	if cached, ok := s.cache.Read(ctx); !ok || cached != *authoritative {
		s.logger.Info("repairing counter drift", "authoritative", *authoritative)
		s.cache.Write(ctx, *authoritative)
	}
	s.cache.ClearResyncNeeded(ctx)
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciling {
		return false
	}
	s.reconciling = true
	return true
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.reconciling = false
	s.mu.Unlock()
}
