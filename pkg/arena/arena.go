// Package arena provides the append-only string storage behind a tinysplit session.
//
// Every trimmed line is copied into the arena as a NUL-terminated run. A run
// starts in the scratch region and is overwritten by the next write unless it
// is committed. Committed runs are never moved relative to the buffer start, so
// callers refer to them by offset and the buffer can be reallocated freely.
package arena

import (
	"bytes"
	"fmt"

	"github.com/aretw0/tinysplit/pkg/domain"
)

// DefaultCapacity is the initial buffer size when none is configured.
const DefaultCapacity = 32

// Arena is a growable byte store split into a committed prefix and a scratch tail.
// It is not safe for concurrent use.
type Arena struct {
	buf       []byte // len(buf) is the end of the last write
	committed int

	// Max caps the buffer size in bytes. Zero means unlimited.
	Max int
}

// Option configures an Arena.
type Option func(*Arena)

// WithLimit caps the arena size in bytes.
func WithLimit(max int) Option {
	return func(a *Arena) {
		a.Max = max
	}
}

// New creates an arena with the given initial capacity.
func New(capacity int, opts ...Option) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	a := &Arena{}
	for _, opt := range opts {
		opt(a)
	}
	if a.Max > 0 && capacity > a.Max {
		capacity = a.Max
	}
	a.buf = make([]byte, 0, capacity)
	return a
}

// WriteScratch copies b plus a terminating NUL at the committed cursor and
// returns the offset of the copy. It does not advance the committed cursor, so
// the copy is replaced by the next write unless Commit is called.
func (a *Arena) WriteScratch(b []byte) (int, error) {
	off := a.committed
	end := off + len(b) + 1

	if end > cap(a.buf) {
		if err := a.grow(end); err != nil {
			return 0, err
		}
	}

	a.buf = a.buf[:end]
	copy(a.buf[off:], b)
	a.buf[end-1] = 0
	return off, nil
}

// grow reallocates the buffer by doubling until it holds need bytes.
func (a *Arena) grow(need int) error {
	if a.Max > 0 && need > a.Max {
		return fmt.Errorf("%w: need %d bytes, limit %d", domain.ErrArenaExhausted, need, a.Max)
	}

	newCap := max(cap(a.buf), DefaultCapacity)
	for newCap < need {
		newCap *= 2
	}
	if a.Max > 0 && newCap > a.Max {
		newCap = a.Max
	}

	buf := make([]byte, len(a.buf), newCap)
	copy(buf, a.buf)
	a.buf = buf
	return nil
}

// Commit advances the committed cursor to end, making every byte before it permanent.
// end is normally ScratchEnd() right after a WriteScratch.
func (a *Arena) Commit(end int) {
	if end < a.committed || end > len(a.buf) {
		panic(fmt.Sprintf("arena: commit to %d outside [%d, %d]", end, a.committed, len(a.buf)))
	}
	a.committed = end
}

// CommitScratch commits the last scratch write and returns the new committed length.
func (a *Arena) CommitScratch() int {
	a.Commit(a.ScratchEnd())
	return a.committed
}

// Bytes returns the NUL-terminated run starting at off, without its terminator.
// The slice aliases the arena and must not be modified.
func (a *Arena) Bytes(off int) []byte {
	if off < 0 || off >= len(a.buf) {
		return nil
	}
	run := a.buf[off:]
	if i := bytes.IndexByte(run, 0); i >= 0 {
		run = run[:i]
	}
	return run[:len(run):len(run)]
}

// View returns the n bytes starting at off, ignoring terminators.
// It is used for runs that may contain NUL bytes themselves.
func (a *Arena) View(off, n int) []byte {
	if off < 0 || n < 0 || off+n > len(a.buf) {
		return nil
	}
	return a.buf[off : off+n : off+n]
}

// String returns a copy of the run starting at off.
func (a *Arena) String(off int) string {
	return string(a.Bytes(off))
}

// ByteAt returns the byte stored at off, or 0 when off is out of range.
func (a *Arena) ByteAt(off int) byte {
	if off < 0 || off >= len(a.buf) {
		return 0
	}
	return a.buf[off]
}

// Committed returns the length of the permanent region.
func (a *Arena) Committed() int {
	return a.committed
}

// ScratchEnd returns the end offset of the last write, terminator included.
func (a *Arena) ScratchEnd() int {
	return len(a.buf)
}

// Cap returns the current buffer capacity.
func (a *Arena) Cap() int {
	return cap(a.buf)
}
