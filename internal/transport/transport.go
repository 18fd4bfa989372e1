// Package transport delivers records to a remote endpoint whose responses
// cannot be read. The HTTP response is treated as opaque (the remote side
// redirects and returns content the caller must not depend on); structured
// results are recovered, when they arrive at all, through an out-of-band
// acknowledgment bridge keyed by request id.
package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action discriminates progress operations on the remote endpoint.
type Action string

const (
	ActionGetCount  Action = "GET_COUNT"
	ActionIncrement Action = "INCREMENT_COUNT"
	ActionSyncCheck Action = "SYNC_CHECK"
)

// DefaultAckWindow bounds how long a delivery waits for an acknowledgment.
const DefaultAckWindow = 2 * time.Second

// Config carries hidden-channel construction parameters.
type Config struct {
	Endpoint  string
	AckWindow time.Duration
	Client    *http.Client
	Logger    *slog.Logger
}

// HiddenChannel posts url-encoded fields to the endpoint and waits for an
// out-of-band acknowledgment.
type HiddenChannel struct {
	endpoint string
	window   time.Duration
	client   *http.Client
	bridge   *Bridge
	logger   *slog.Logger
}

// NewHiddenChannel creates a HiddenChannel over the given bridge.
func NewHiddenChannel(cfg Config, bridge *Bridge) *HiddenChannel {
	window := cfg.AckWindow
	if window <= 0 {
		window = DefaultAckWindow
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: window}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HiddenChannel{
		endpoint: cfg.Endpoint,
		window:   window,
		client:   client,
		bridge:   bridge,
		logger:   logger,
	}
}

// Deliver flattens fields into a form post, dispatches it, and waits up to
// the ack window for a correlated acknowledgment. On expiry it returns
// ErrAmbiguous: the request may or may not have been processed remotely,
// and callers must not collapse that ambiguity into "failed".
//
// The pending correlation entry is always torn down before returning.
func (h *HiddenChannel) Deliver(ctx context.Context, fields map[string]string) (Ack, error) {
	requestID := uuid.NewString()

	ch := h.bridge.register(requestID)
	defer h.bridge.release(requestID)

	form := url.Values{}
	for key, value := range fields {
		form.Set(key, value)
	}
	form.Set("requestId", requestID)

	// Dispatch without waiting for the HTTP round-trip: the response is
	// opaque, and the acknowledgment can arrive before the redirect chain
	// settles.
	go h.dispatch(ctx, requestID, form)

	timer := time.NewTimer(h.window)
	defer timer.Stop()

	select {
	case ack := <-ch:
		return ack, nil
	case <-timer.C:
		h.logger.Debug("delivery unacknowledged", "requestId", requestID)
		return Ack{Success: false}, ErrAmbiguous
	case <-ctx.Done():
		return Ack{Success: false}, ctx.Err()
	}
}

// DeliverAction runs a progress operation (GET_COUNT, INCREMENT_COUNT,
// SYNC_CHECK) through the same channel.
func (h *HiddenChannel) DeliverAction(ctx context.Context, action Action) (Ack, error) {
	return h.Deliver(ctx, map[string]string{"action": string(action)})
}

func (h *HiddenChannel) dispatch(ctx context.Context, requestID string, form url.Values) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		h.logger.Warn("building dispatch failed", "requestId", requestID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Debug("dispatch failed", "requestId", requestID, "error", err)
		return
	}
	// The body is opaque by contract. Drain it so the connection can be
	// reused, then discard it.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	h.logger.Debug("dispatched", "requestId", requestID, "status", resp.StatusCode)
}
