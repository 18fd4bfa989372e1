// Package submission coordinates form submissions: validation and
// sanitization first, telemetry and metadata attachment second, dispatch
// last. Validation failures never reach the network.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/inputgate"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/securestore"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
	"github.com/google/uuid"
)

// retryMessage is the user-facing text for a submission the endpoint
// positively rejected.
const retryMessage = "submission could not be delivered, please try again"

// Service is the UI-facing submission façade.
type Service struct {
	channel Channel
	signals Signals
	meta    Metadata
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a submission Service. signals may be nil when no
// collector is wired (records then carry no telemetry).
func NewService(channel Channel, signals Signals, meta Metadata, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		channel: channel,
		signals: signals,
		meta:    meta,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit validates raw, and on success dispatches the sanitized record
// with metadata and bot-signal telemetry attached.
//
// An unacknowledged dispatch counts as success: the endpoint is not
// idempotent, so retrying an ambiguous timeout risks a duplicate write.
// The trade is a small chance of confirming a submission that never
// landed, and it is deliberate.
func (s *Service) Submit(ctx context.Context, raw map[string]string, kind inputgate.FormKind) Outcome {
	result := inputgate.Validate(raw, kind)
	if !result.Valid() {
		return Outcome{Success: false, Errors: result.Errors}
	}

	fields := result.Sanitized
	fields["type"] = string(kind)
	fields["source"] = s.meta.Source
	fields["userAgent"] = s.meta.UserAgent
	fields["referrer"] = s.meta.Referrer
	fields["sessionId"] = s.meta.SessionID
	fields["timestamp"] = s.now().UTC().Format(time.RFC3339)

	if s.signals != nil {
		if payload, err := json.Marshal(s.signals.Snapshot()); err == nil {
			fields["botSignals"] = string(payload)
		}
	}

	localID := uuid.NewString()

	ack, err := s.channel.Deliver(ctx, fields)
	switch {
	case err == nil && ack.Success:
		s.logger.Info("submission acknowledged", "kind", kind, "id", localID)
		return Outcome{Success: true, ID: localID}
	case errors.Is(err, transport.ErrAmbiguous):
		s.logger.Info("submission unacknowledged, assuming delivered", "kind", kind, "id", localID)
		return Outcome{Success: true, ID: localID}
	case err != nil:
		s.logger.Warn("submission failed", "kind", kind, "error", err)
		return Outcome{Success: false, Errors: []string{retryMessage}}
	default:
		s.logger.Warn("submission rejected by endpoint", "kind", kind)
		return Outcome{Success: false, Errors: []string{retryMessage}}
	}
}

// EnsureSessionID returns the stable per-session identifier, minting and
// persisting one when none is stored. With persistence unavailable the id
// is still returned, it just won't survive the process.
func EnsureSessionID(ctx context.Context, store *securestore.Store) string {
	var id string
	if store.GetItem(ctx, "session.id", &id) && id != "" {
		return id
	}
	id = uuid.NewString()
	store.SetItem(ctx, "session.id", id)
	return id
}
