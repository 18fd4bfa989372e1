package progress

import (
	"context"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
)

// Channel delivers progress actions to the remote endpoint. Satisfied by
// transport.HiddenChannel.
type Channel interface {
	DeliverAction(ctx context.Context, action transport.Action) (transport.Ack, error)
}
