package transport

import "errors"

var (
	// ErrAmbiguous indicates a request that was dispatched but never
	// acknowledged within the wait window. The remote side may or may
	// not have processed it; the client cannot tell the two apart.
	ErrAmbiguous = errors.New("request unacknowledged within window")

	// ErrOriginRejected indicates an acknowledgment from an origin
	// outside the allow-list.
	ErrOriginRejected = errors.New("acknowledgment origin not allowed")

	// ErrUnknownRequest indicates an acknowledgment whose correlation id
	// matches no pending request.
	ErrUnknownRequest = errors.New("no pending request for acknowledgment")
)
