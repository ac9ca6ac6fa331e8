package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tinysplit/pkg/adapters/redis"
	"github.com/aretw0/tinysplit/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Redis_IDsDoNotShadowInternalKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mgr := session.NewManager(redis.NewFromClient(client),
		session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := mgr.Feed(ctx, "index", []string{"(A"})
	require.NoError(t, err, "a session named after the index key")
	assert.Equal(t, []string{"(A"}, res.Snapshot.Stack)

	_, err = mgr.Feed(ctx, "lock:doc", []string{"(B"})
	require.NoError(t, err)

	res, err = mgr.Feed(ctx, "doc", []string{"(C"})
	require.NoError(t, err, "session lock:doc must not hold the lock of doc")
	assert.Equal(t, []string{"(C"}, res.Snapshot.Stack)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", "lock:doc", "doc"}, ids)
}
