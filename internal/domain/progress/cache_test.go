package progress

import (
	"context"
	"testing"
	"time"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/cryptobox"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/securestore"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *securestore.Store {
	t.Helper()

	key, err := cryptobox.GenerateKey()
	require.NoError(t, err)
	box, err := cryptobox.NewBox(key)
	require.NoError(t, err)

	return securestore.New(sqlite.NewKVRepository(sqlite.NewTestDB(t)), box, nil)
}

// testClock is a settable wall clock for freshness tests.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time          { return c.current }
func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestCache(t *testing.T) (*Cache, *testClock, *securestore.Store) {
	t.Helper()

	store := newTestStore(t)
	clock := &testClock{current: time.Unix(1700000000, 0)}
	cache := NewCache(store, time.Minute)
	cache.now = clock.Now
	return cache, clock, store
}

func TestCache_ReadFresh(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	cache.Write(ctx, 42)

	value, ok := cache.Read(ctx)
	require.True(t, ok)
	require.Equal(t, int64(42), value)
}

func TestCache_StaleTreatedAsAbsent(t *testing.T) {
	cache, clock, store := newTestCache(t)
	ctx := context.Background()

	cache.Write(ctx, 42)
	clock.Advance(time.Minute)

	_, ok := cache.Read(ctx)
	require.False(t, ok, "entry at exactly the TTL boundary is stale")

	// The storage entry still exists; staleness is a read-side decision.
	var raw CachedCount
	require.True(t, store.GetItem(ctx, keyCount, &raw))
	require.Equal(t, int64(42), raw.Value)
}

func TestCache_FallbackHasNoTTL(t *testing.T) {
	cache, clock, _ := newTestCache(t)
	ctx := context.Background()

	cache.Write(ctx, 42)
	clock.Advance(24 * time.Hour)

	value, ok := cache.Fallback(ctx)
	require.True(t, ok)
	require.Equal(t, int64(42), value)
}

func TestCache_EmptyReads(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.Read(ctx)
	require.False(t, ok)
	_, ok = cache.Fallback(ctx)
	require.False(t, ok)
	require.False(t, cache.ResyncNeeded(ctx))
	_, ok = cache.LastSync(ctx)
	require.False(t, ok)
}

func TestCache_ResyncFlag(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	cache.MarkResyncNeeded(ctx)
	require.True(t, cache.ResyncNeeded(ctx))

	cache.ClearResyncNeeded(ctx)
	require.False(t, cache.ResyncNeeded(ctx))
}

func TestCache_SyncMarker(t *testing.T) {
	cache, clock, _ := newTestCache(t)
	ctx := context.Background()

	cache.TouchSync(ctx)

	last, ok := cache.LastSync(ctx)
	require.True(t, ok)
	require.Equal(t, clock.Now().UnixMilli(), last.UnixMilli())
}
