package transport

import (
	"log/slog"
	"sync"
)

// Ack is the structured acknowledgment recovered out of band. RequestID
// correlates it with a pending delivery; the remaining fields mirror what
// the remote endpoint reports.
type Ack struct {
	RequestID   string `json:"requestId"`
	Success     bool   `json:"success"`
	Count       *int64 `json:"count,omitempty"`
	ID          string `json:"id,omitempty"`
	Synced      bool   `json:"synced,omitempty"`
	ActualCount *int64 `json:"actualCount,omitempty"`
}

// Bridge routes out-of-band acknowledgments to pending deliveries through
// a correlation table, so concurrent in-flight requests never race over a
// single shared listener. Origins are checked by exact string match; a
// substring or suffix match would let a look-alike origin spoof acks.
type Bridge struct {
	mu      sync.Mutex
	pending map[string]chan Ack
	origins map[string]struct{}
	logger  *slog.Logger
}

// NewBridge creates a Bridge accepting acknowledgments only from the given
// origins.
func NewBridge(allowedOrigins []string, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}
	return &Bridge{
		pending: make(map[string]chan Ack),
		origins: origins,
		logger:  logger,
	}
}

// Publish delivers an acknowledgment from origin. Unknown origins and
// unknown correlation ids are rejected; a late ack for a request that
// already timed out lands here too and is dropped.
func (b *Bridge) Publish(origin string, ack Ack) error {
	if _, ok := b.origins[origin]; !ok {
		b.logger.Warn("rejecting acknowledgment", "origin", origin)
		return ErrOriginRejected
	}

	b.mu.Lock()
	ch, ok := b.pending[ack.RequestID]
	if ok {
		delete(b.pending, ack.RequestID)
	}
	b.mu.Unlock()

	if !ok {
		b.logger.Debug("dropping acknowledgment", "requestId", ack.RequestID)
		return ErrUnknownRequest
	}

	ch <- ack
	return nil
}

// register opens a pending entry for a request id. The returned channel is
// buffered so Publish never blocks on a caller that has moved on.
func (b *Bridge) register(requestID string) <-chan Ack {
	ch := make(chan Ack, 1)
	b.mu.Lock()
	b.pending[requestID] = ch
	b.mu.Unlock()
	return ch
}

// release tears down a pending entry, if it is still pending.
func (b *Bridge) release(requestID string) {
	b.mu.Lock()
	delete(b.pending, requestID)
	b.mu.Unlock()
}

// pendingCount reports open entries; used to verify nothing leaks.
func (b *Bridge) pendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
