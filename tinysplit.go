package tinysplit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tinysplit/internal/logging"
	"github.com/aretw0/tinysplit/pkg/arena"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/scope"
)

// Session is one parsing run: an arena and the scope stack that points into it.
// A Session is not safe for concurrent use.
type Session struct {
	arena *arena.Arena
	stack *scope.Stack

	hooks  domain.Hooks
	logger *slog.Logger

	lines  int
	popped []int // offsets removed by the last line
	closed error // fatal cause, set once

	arenaCapacity int
	arenaLimit    int
	stackCapacity int
	maxDepth      int
}

// Option defines a functional option for configuring a Session.
type Option func(*Session)

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithArenaCapacity sets the initial arena size in bytes.
func WithArenaCapacity(n int) Option {
	return func(s *Session) {
		s.arenaCapacity = n
	}
}

// WithArenaLimit caps the arena size in bytes. Reaching it closes the session.
func WithArenaLimit(n int) Option {
	return func(s *Session) {
		s.arenaLimit = n
	}
}

// WithStackCapacity sets the initial number of stack slots.
func WithStackCapacity(n int) Option {
	return func(s *Session) {
		s.stackCapacity = n
	}
}

// WithMaxDepth caps the number of open scopes. Reaching it closes the session.
func WithMaxDepth(n int) Option {
	return func(s *Session) {
		s.maxDepth = n
	}
}

// New creates a session with an empty arena and an empty stack.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	var arenaOpts []arena.Option
	if s.arenaLimit > 0 {
		arenaOpts = append(arenaOpts, arena.WithLimit(s.arenaLimit))
	}
	var stackOpts []scope.StackOption
	if s.maxDepth > 0 {
		stackOpts = append(stackOpts, scope.WithMaxDepth(s.maxDepth))
	}

	s.arena = arena.New(s.arenaCapacity, arenaOpts...)
	s.stack = scope.NewStack(s.arena, s.stackCapacity, stackOpts...)
	return s
}

// Restore creates a session whose stack holds the scopes of snap.
// Entries are stored as given; they are expected to be trimmed already.
func Restore(snap *domain.Snapshot, opts ...Option) (*Session, error) {
	s := New(opts...)
	if snap == nil {
		return s, nil
	}

	for _, text := range snap.Stack {
		off, err := s.arena.WriteScratch([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("failed to restore scope %q: %w", text, err)
		}
		s.arena.CommitScratch()
		if err := s.stack.Push(off); err != nil {
			return nil, fmt.Errorf("failed to restore scope %q: %w", text, err)
		}
	}
	s.lines = snap.Lines
	return s, nil
}

// ProcessString is ProcessLine for a string.
func (s *Session) ProcessString(line string) (Result, error) {
	return s.ProcessLine([]byte(line))
}

// ProcessLine trims line, applies its sigil to the scope stack and returns the
// post-transition view. The line must not include its terminator.
//
// An error is always fatal: the session is closed and later calls return
// domain.ErrSessionClosed.
func (s *Session) ProcessLine(line []byte) (Result, error) {
	if s.closed != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrSessionClosed, s.closed)
	}

	trimmed := TrimASCII(line)
	off, err := s.arena.WriteScratch(trimmed)
	if err != nil {
		return Result{}, s.fail(err)
	}
	text := s.arena.View(off, len(trimmed))
	s.lines++

	d := scope.Decide(text, s.stack)

	s.popped = s.popped[:0]
	if d.Pop {
		for i := d.PopTo; i < s.stack.Len(); i++ {
			s.popped = append(s.popped, s.stack.Offset(i))
		}
		s.stack.Truncate(d.PopTo)
	}
	if d.Recovered {
		s.logger.Debug("Unmatched close recovered", "line", s.lines, "cleared", len(s.popped))
	}

	if d.Push {
		s.arena.CommitScratch()
		if err := s.stack.Push(off); err != nil {
			return Result{}, s.fail(err)
		}
	}

	res := Result{
		Trimmed:   text,
		Sigil:     domain.SigilOf(text),
		Pushed:    d.Push,
		Recovered: d.Recovered,
		Line:      s.lines,
		session:   s,
		popped:    s.popped,
	}
	s.fireHooks(res)
	return res, nil
}

// End marks the end of the stream. It returns a result without text or sigil
// whose stack is the final snapshot. Neither the arena nor the stack change.
func (s *Session) End() Result {
	return Result{End: true, Line: s.lines, session: s}
}

func (s *Session) fireHooks(res Result) {
	if s.hooks.OnPop != nil && len(res.popped) > 0 {
		s.hooks.OnPop(&domain.ScopeEvent{
			Line:  res.Line,
			Texts: res.Popped(),
			Depth: s.stack.Len() - boolToInt(res.Pushed),
		})
	}
	if s.hooks.OnPush != nil && res.Pushed {
		s.hooks.OnPush(&domain.ScopeEvent{
			Line:  res.Line,
			Texts: []string{string(res.Trimmed)},
			Depth: s.stack.Len(),
		})
	}
}

func (s *Session) fail(err error) error {
	s.closed = err
	s.logger.Error("Session closed",
		"error", err,
		"line", s.lines,
		"depth", s.stack.Len(),
		"arena_committed", s.arena.Committed(),
		"arena_cap", s.arena.Cap(),
	)
	return err
}

// Err returns the fatal error that closed the session, if any.
func (s *Session) Err() error {
	return s.closed
}

// Closed reports whether a fatal error ended the session.
func (s *Session) Closed() bool {
	return s.closed != nil
}

// Get returns the text of stack entry n. Non-negative n counts from the root,
// negative n from the top (-1 is the innermost scope).
func (s *Session) Get(n int) (string, bool) {
	return s.stack.Get(n)
}

// Depth returns the number of open scopes.
func (s *Session) Depth() int {
	return s.stack.Len()
}

// Lines returns the number of lines processed.
func (s *Session) Lines() int {
	return s.lines
}

// Stack copies the open scopes, outermost first.
func (s *Session) Stack() []string {
	return s.stack.Strings()
}

// Snapshot captures the session so it can be resumed with Restore.
func (s *Session) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Stack: s.stack.Strings(),
		Lines: s.lines,
	}
}

// IsFatal reports whether err ended a session.
func IsFatal(err error) bool {
	return errors.Is(err, domain.ErrArenaExhausted) ||
		errors.Is(err, domain.ErrStackExhausted) ||
		errors.Is(err, domain.ErrSessionClosed)
}

// TrimASCII strips ASCII whitespace from both ends of b.
// Other Unicode spaces are content.
func TrimASCII(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isASCIISpace(b[start]) {
		start++
	}
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
