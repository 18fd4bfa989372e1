package progress

import (
	"context"
	"time"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/securestore"
)

// DefaultCacheTimeout is the freshness window for the cached counter.
const DefaultCacheTimeout = 5 * time.Minute

// Cache holds the last known progress counter behind the secure store,
// with a freshness TTL plus a no-TTL fallback slot for when both network
// and fresh cache are gone.
type Cache struct {
	store *securestore.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewCache creates a Cache over store.
func NewCache(store *securestore.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTimeout
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// Read returns the cached value only while it is fresh. A stale entry is
// treated as absent even though the storage entry still exists.
func (c *Cache) Read(ctx context.Context) (int64, bool) {
	var cached CachedCount
	if !c.store.GetItem(ctx, keyCount, &cached) {
		return 0, false
	}
	age := c.now().Sub(time.UnixMilli(cached.CapturedAt))
	if age >= c.ttl {
		return 0, false
	}
	return cached.Value, true
}

// Write persists value with the current timestamp and mirrors it into the
// fallback slot. Write failures are tolerated; the store already degraded
// to "nothing persists".
func (c *Cache) Write(ctx context.Context, value int64) {
	c.store.SetItem(ctx, keyCount, CachedCount{
		Value:      value,
		CapturedAt: c.now().UnixMilli(),
	})
	c.store.SetItem(ctx, keyFallback, value)
}

// Fallback returns the last known good value, with no TTL applied.
func (c *Cache) Fallback(ctx context.Context) (int64, bool) {
	var value int64
	if !c.store.GetItem(ctx, keyFallback, &value) {
		return 0, false
	}
	return value, true
}

// MarkResyncNeeded flags that a local optimistic increment could not be
// confirmed by the server.
func (c *Cache) MarkResyncNeeded(ctx context.Context) {
	c.store.SetItem(ctx, keyResync, true)
}

// ClearResyncNeeded drops the flag after a reconciliation has read the
// authoritative count.
func (c *Cache) ClearResyncNeeded(ctx context.Context) {
	c.store.RemoveItem(ctx, keyResync)
}

// ResyncNeeded reports whether an unconfirmed local increment is pending.
func (c *Cache) ResyncNeeded(ctx context.Context) bool {
	var flagged bool
	return c.store.GetItem(ctx, keyResync, &flagged) && flagged
}

// LastSync returns the persisted reconciliation marker.
func (c *Cache) LastSync(ctx context.Context) (time.Time, bool) {
	var marker SyncMarker
	if !c.store.GetItem(ctx, keySync, &marker) {
		return time.Time{}, false
	}
	return time.UnixMilli(marker.LastSyncAt), true
}

// TouchSync stamps the reconciliation marker with the current time.
func (c *Cache) TouchSync(ctx context.Context) {
	c.store.SetItem(ctx, keySync, SyncMarker{LastSyncAt: c.now().UnixMilli()})
}
