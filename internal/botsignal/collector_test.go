package botsignal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector_RingKeepsLastTen(t *testing.T) {
	c := New()
	for i := 0; i < 25; i++ {
		c.RecordEvent(EventPointerMove, i, i*2)
	}

	snap := c.Snapshot()
	require.Len(t, snap.Events, 10)
	require.Equal(t, 15, snap.Events[0].X, "oldest events evicted first")
	require.Equal(t, 24, snap.Events[9].X)
}

func TestCollector_SnapshotIsACopy(t *testing.T) {
	c := New()
	c.RecordEvent(EventClick, 1, 1)

	snap := c.Snapshot()
	c.RecordEvent(EventClick, 2, 2)

	require.Len(t, snap.Events, 1)
}

func TestCollector_HoneypotAndElapsed(t *testing.T) {
	current := time.Unix(1700000000, 0)
	c := newWithClock(func() time.Time { return current })

	c.SetHoneypot("filled by a bot")
	current = current.Add(1500 * time.Millisecond)

	snap := c.Snapshot()
	require.Equal(t, "filled by a bot", snap.Honeypot)
	require.Equal(t, int64(1500), snap.ElapsedMS)
}

func TestCollector_EmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	require.Empty(t, snap.Events)
	require.Empty(t, snap.Honeypot)
}
