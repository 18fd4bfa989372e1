package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entry doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the underlying store cannot be
	// reached (disabled persistence, closed database, full disk).
	// Callers degrade to "nothing persists" rather than failing hard.
	ErrUnavailable = errors.New("storage unavailable")
)
