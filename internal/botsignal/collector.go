// Package botsignal passively gathers low-fidelity interaction telemetry
// attached to submitted records. The collector makes no accept/reject
// decision; the remote system is the policy point.
package botsignal

import (
	"sync"
	"time"
)

// maxEvents bounds the interaction ring buffer.
const maxEvents = 10

// EventKind labels an interaction event.
type EventKind string

const (
	EventPointerMove EventKind = "move"
	EventClick       EventKind = "click"
)

// Event is a single interaction sample.
type Event struct {
	Kind EventKind `json:"kind"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
	At   int64     `json:"at"` // unix milliseconds
}

// Payload is the telemetry snapshot attached to a submission. A non-empty
// honeypot value is a strong automation signal: the field is invisible to
// humans, so only an automated filler touches it.
type Payload struct {
	Events    []Event `json:"events"`
	Honeypot  string  `json:"honeypot"`
	ElapsedMS int64   `json:"elapsedMs"`
}

// Collector accumulates the last few interaction events plus honeypot
// content and elapsed time since the form rendered. Safe for concurrent
// use.
type Collector struct {
	mu       sync.Mutex
	events   []Event
	honeypot string
	started  time.Time
	now      func() time.Time
}

// New creates a Collector; construction marks the form-render instant.
func New() *Collector {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Collector {
	return &Collector{started: now(), now: now}
}

// RecordEvent appends an interaction sample, evicting the oldest once the
// ring is full.
func (c *Collector) RecordEvent(kind EventKind, x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, Event{
		Kind: kind,
		X:    x,
		Y:    y,
		At:   c.now().UnixMilli(),
	})
	if len(c.events) > maxEvents {
		c.events = c.events[len(c.events)-maxEvents:]
	}
}

// SetHoneypot records the current honeypot field content.
func (c *Collector) SetHoneypot(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.honeypot = value
}

// Snapshot returns the current telemetry payload. The returned event slice
// is a copy; later events do not mutate an already-taken snapshot.
func (c *Collector) Snapshot() Payload {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]Event, len(c.events))
	copy(events, c.events)

	return Payload{
		Events:    events,
		Honeypot:  c.honeypot,
		ElapsedMS: c.now().Sub(c.started).Milliseconds(),
	}
}
