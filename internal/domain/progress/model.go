package progress

// Storage keys owned by this package. All of them live behind the secure
// store; nothing here touches durable storage directly.
const (
	keyCount    = "progress.count"
	keyFallback = "progress.fallback"
	keySync     = "progress.lastSync"
	keyResync   = "progress.needsResync"
)

// CachedCount is the last known progress counter with its capture instant.
// It is fresh only while now-CapturedAt stays under the cache TTL; stale
// entries are treated as absent, never served.
type CachedCount struct {
	Value      int64 `json:"value"`
	CapturedAt int64 `json:"capturedAt"` // unix milliseconds
}

// SyncMarker records the last reconciliation attempt. Reconciliation is
// skipped while the marker is fresh, so several instances of the page do
// not stampede the remote endpoint.
type SyncMarker struct {
	LastSyncAt int64 `json:"lastSyncAt"` // unix milliseconds
}
