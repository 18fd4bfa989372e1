package submission

import (
	"context"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/botsignal"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
)

// Channel delivers a flattened record to the remote endpoint. Satisfied by
// transport.HiddenChannel.
type Channel interface {
	Deliver(ctx context.Context, fields map[string]string) (transport.Ack, error)
}

// Signals supplies the telemetry snapshot attached to each submission.
// Satisfied by botsignal.Collector.
type Signals interface {
	Snapshot() botsignal.Payload
}
