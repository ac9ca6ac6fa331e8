package scope

import (
	"fmt"

	"github.com/aretw0/tinysplit/pkg/arena"
	"github.com/aretw0/tinysplit/pkg/domain"
)

// DefaultCapacity is the initial number of entries when none is configured.
const DefaultCapacity = 8

// Stack is an ordered list of arena offsets. Index 0 is the root.
// Entries do not own their bytes; the arena does.
type Stack struct {
	arena   *arena.Arena
	entries []int

	// Max caps the depth. Zero means unlimited.
	Max int
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithMaxDepth caps the number of open scopes.
func WithMaxDepth(max int) StackOption {
	return func(s *Stack) {
		s.Max = max
	}
}

// NewStack creates an empty stack backed by a.
func NewStack(a *arena.Arena, capacity int, opts ...StackOption) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Stack{
		arena:   a,
		entries: make([]int, 0, capacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push appends the entry at arena offset off.
func (s *Stack) Push(off int) error {
	if s.Max > 0 && len(s.entries) >= s.Max {
		return fmt.Errorf("%w: depth limit %d", domain.ErrStackExhausted, s.Max)
	}
	s.entries = append(s.entries, off)
	return nil
}

// Truncate removes every entry at index n or above.
func (s *Stack) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.entries) {
		return
	}
	s.entries = s.entries[:n]
}

// Len returns the number of open scopes.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Offset returns the arena offset of entry i, counted from the bottom.
func (s *Stack) Offset(i int) int {
	return s.entries[i]
}

// SigilAt returns the sigil of entry i, counted from the bottom.
func (s *Stack) SigilAt(i int) domain.Sigil {
	return domain.Sigil(s.arena.ByteAt(s.entries[i]))
}

// Bytes returns the text of entry i, counted from the bottom.
// The slice aliases the arena.
func (s *Stack) Bytes(i int) []byte {
	return s.arena.Bytes(s.entries[i])
}

// Get returns the text of entry n. Non-negative n counts from the bottom,
// negative n from the top (-1 is the most recent push).
func (s *Stack) Get(n int) (string, bool) {
	i, ok := s.index(n)
	if !ok {
		return "", false
	}
	return string(s.Bytes(i)), true
}

func (s *Stack) index(n int) (int, bool) {
	if n < 0 {
		n += len(s.entries)
	}
	if n < 0 || n >= len(s.entries) {
		return 0, false
	}
	return n, true
}

// Strings copies the whole stack, outermost first.
func (s *Stack) Strings() []string {
	out := make([]string, len(s.entries))
	for i, off := range s.entries {
		out[i] = s.arena.String(off)
	}
	return out
}
