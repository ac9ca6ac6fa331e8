package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tinysplit/pkg/adapters/redis"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	err := store.Save(ctx, sessionID, &domain.Snapshot{Stack: []string{"(BLOCK"}, Lines: 1})
	require.NoError(t, err)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	// Key expiration is driven by miniredis' clock.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Index pruning compares against time.Now(), so wait past the TTL for real.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	sessionID := "my-session"

	err := store.Save(ctx, sessionID, domain.NewSnapshot())
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:data:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:meta:index"), "Expected index with custom prefix to exist")

	require.NoError(t, store.Ping(ctx))
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), "doc", domain.NewSnapshot()))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"data:doc"))
}

func TestRedisStore_ReservedLookingIDs(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, redis.DefaultPrefix)
	ctx := context.Background()

	for _, id := range []string{"index", "meta:index", "lock:doc", "data:doc"} {
		require.NoError(t, store.Save(ctx, id, &domain.Snapshot{Stack: []string{"(" + id}, Lines: 1}), id)
		snap, err := store.Load(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, []string{"(" + id}, snap.Stack)
	}

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", "meta:index", "lock:doc", "data:doc"}, sessions)

	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(lockCtx, "doc", time.Minute)
	require.NoError(t, err, "a stored session named lock:doc must not hold the lock of doc")
	require.NoError(t, unlock(ctx))

	_, err = store.Load(ctx, "doc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "data:doc is its own session, not doc")
}
