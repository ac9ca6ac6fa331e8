package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/pkg/adapters/memory"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMiddleware(t *testing.T) {
	mw, err := middleware.NewRedactMiddleware([]string{`(?i)^:(password|token)\b`})
	require.NoError(t, err)

	underlying := memory.NewStore()
	store := mw(underlying)
	ctx := context.Background()

	snap := &domain.Snapshot{Stack: []string{"(LOGIN", ":password hunter2", "@step"}, Lines: 3}
	require.NoError(t, store.Save(ctx, "s", snap))
	assert.Equal(t, ":password hunter2", snap.Stack[1], "caller's snapshot is untouched")

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"(LOGIN", ":" + middleware.Mask, "@step"}, loaded.Stack)

	// The masked stack still drives the same transitions.
	s, err := tinysplit.Restore(loaded)
	require.NoError(t, err)
	res, err := s.ProcessString("@next")
	require.NoError(t, err)
	assert.Equal(t, []string{"(LOGIN", ":" + middleware.Mask, "@next"}, res.Stack())
}

func TestRedactMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	redact, err := middleware.NewRedactMiddleware([]string{"secret"})
	require.NoError(t, err)
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	underlying := memory.NewStore()
	store := middleware.Chain(underlying, redact, seal)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s", &domain.Snapshot{Stack: []string{":secret x"}, Lines: 1}))

	raw, err := underlying.Load(ctx, "s")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{":" + middleware.Mask}, loaded.Stack)
}
