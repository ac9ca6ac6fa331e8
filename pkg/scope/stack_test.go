package scope_test

import (
	"testing"

	"github.com/aretw0/tinysplit/pkg/arena"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushAll commits every text into a and pushes it onto a fresh stack.
func pushAll(t *testing.T, texts ...string) (*arena.Arena, *scope.Stack) {
	t.Helper()
	a := arena.New(4)
	s := scope.NewStack(a, 1)
	for _, text := range texts {
		off, err := a.WriteScratch([]byte(text))
		require.NoError(t, err)
		a.CommitScratch()
		require.NoError(t, s.Push(off))
	}
	return a, s
}

func TestStack_Get(t *testing.T) {
	_, s := pushAll(t, "(BLOCK", ":a1", "@section1")

	tests := []struct {
		n    int
		want string
		ok   bool
	}{
		{0, "(BLOCK", true},
		{2, "@section1", true},
		{-1, "@section1", true},
		{-3, "(BLOCK", true},
		{3, "", false},
		{-4, "", false},
	}
	for _, tt := range tests {
		got, ok := s.Get(tt.n)
		assert.Equal(t, tt.ok, ok, "Get(%d)", tt.n)
		assert.Equal(t, tt.want, got, "Get(%d)", tt.n)
	}
}

func TestStack_SigilAt(t *testing.T) {
	_, s := pushAll(t, "(BLOCK", ":a1", "@section1")
	assert.Equal(t, domain.SigilOpen, s.SigilAt(0))
	assert.Equal(t, domain.SigilAttr, s.SigilAt(1))
	assert.Equal(t, domain.SigilSection, s.SigilAt(2))
	assert.Equal(t, []byte(":a1"), s.Bytes(1))
}

func TestStack_Truncate(t *testing.T) {
	_, s := pushAll(t, "(", ":a", "@x")

	s.Truncate(5)
	assert.Equal(t, 3, s.Len(), "truncating past the end is a no-op")

	s.Truncate(1)
	assert.Equal(t, []string{"("}, s.Strings())

	s.Truncate(-1)
	assert.Equal(t, 0, s.Len())
}

func TestStack_MaxDepth(t *testing.T) {
	a := arena.New(0)
	s := scope.NewStack(a, 0, scope.WithMaxDepth(1))
	require.NoError(t, s.Push(0))
	assert.ErrorIs(t, s.Push(0), domain.ErrStackExhausted)
}
