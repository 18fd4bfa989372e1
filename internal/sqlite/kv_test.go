package sqlite

import (
	"context"
	"testing"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestKVRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "cq.count", "blob-1"))

	blob, err := repo.Get(ctx, "cq.count")
	require.NoError(t, err)
	require.Equal(t, "blob-1", blob)
}

func TestKVRepository_PutOverwrites(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "cq.count", "blob-1"))
	require.NoError(t, repo.Put(ctx, "cq.count", "blob-2"))

	blob, err := repo.Get(ctx, "cq.count")
	require.NoError(t, err)
	require.Equal(t, "blob-2", blob)
}

func TestKVRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)

	_, err := repo.Get(context.Background(), "cq.absent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKVRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "cq.count", "blob"))
	require.NoError(t, repo.Delete(ctx, "cq.count"))

	_, err := repo.Get(ctx, "cq.count")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "cq.count"))
}

func TestKVRepository_KeysByPrefix(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "cq.count", "a"))
	require.NoError(t, repo.Put(ctx, "cq.session", "b"))
	require.NoError(t, repo.Put(ctx, "other.key", "c"))

	keys, err := repo.Keys(ctx, "cq.")
	require.NoError(t, err)
	require.Equal(t, []string{"cq.count", "cq.session"}, keys)
}

func TestKVRepository_ClosedDBIsUnavailable(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKVRepository(db)
	require.NoError(t, db.Close())

	err := repo.Put(context.Background(), "cq.count", "blob")
	require.ErrorIs(t, err, repository.ErrUnavailable)

	_, err = repo.Get(context.Background(), "cq.count")
	require.ErrorIs(t, err, repository.ErrUnavailable)
}
