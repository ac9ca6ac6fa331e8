package tinysplit

import "github.com/aretw0/tinysplit/pkg/domain"

// Result is the outcome of one ProcessLine or End call.
// Trimmed and Popped borrow session memory and are only valid until the next
// call on the same session. The stack accessors read the live stack.
type Result struct {
	// Trimmed is the line without surrounding ASCII whitespace.
	// It is empty (not nil) for a blank line and nil at end-of-stream.
	Trimmed []byte

	// Sigil is the first byte of Trimmed, or SigilNone.
	Sigil domain.Sigil

	// Pushed reports whether the line opened a scope.
	Pushed bool

	// Recovered reports that a ')' matched no open '(' and cleared the stack.
	Recovered bool

	// End marks the end-of-stream result.
	End bool

	// Line is the 1-based number of the line. For End it is the number of
	// lines processed.
	Line int

	session *Session
	popped  []int
}

// Text returns a copy of the trimmed line.
func (r Result) Text() string {
	return string(r.Trimmed)
}

// Payload returns the trimmed line after its sigil.
func (r Result) Payload() []byte {
	if len(r.Trimmed) == 0 {
		return r.Trimmed
	}
	return r.Trimmed[1:]
}

// Depth returns the number of open scopes.
func (r Result) Depth() int {
	if r.session == nil {
		return 0
	}
	return r.session.stack.Len()
}

// Get returns stack entry n, with negative n counting from the top.
func (r Result) Get(n int) (string, bool) {
	if r.session == nil {
		return "", false
	}
	return r.session.stack.Get(n)
}

// Stack copies the open scopes, outermost first.
func (r Result) Stack() []string {
	if r.session == nil {
		return []string{}
	}
	return r.session.stack.Strings()
}

// Popped returns the scopes this line closed, outermost first.
func (r Result) Popped() []string {
	if len(r.popped) == 0 {
		return nil
	}
	out := make([]string, len(r.popped))
	for i, off := range r.popped {
		out[i] = r.session.arena.String(off)
	}
	return out
}

// Record copies the result into a value that outlives the session.
func (r Result) Record() domain.LineRecord {
	rec := domain.LineRecord{
		Sigil:     r.Sigil.String(),
		Pushed:    r.Pushed,
		Popped:    r.Popped(),
		Recovered: r.Recovered,
		Stack:     r.Stack(),
	}
	if !r.End {
		rec.Line = r.Line
		text := r.Text()
		rec.Trimmed = &text
	}
	return rec
}
