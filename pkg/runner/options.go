package runner

import (
	"log/slog"

	"github.com/aretw0/tinysplit"
)

// DefaultMaxLineSize is the longest line the Runner accepts, in bytes.
const DefaultMaxLineSize = 1 << 20

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSession runs lines through an existing session, e.g. one restored from a snapshot.
func WithSession(s *tinysplit.Session) Option {
	return func(r *Runner) {
		r.Session = s
	}
}

// WithSessionOptions configures the session the Runner creates when none is given.
func WithSessionOptions(opts ...tinysplit.Option) Option {
	return func(r *Runner) {
		r.sessionOpts = append(r.sessionOpts, opts...)
	}
}

// WithHandler configures the OutputHandler.
func WithHandler(h OutputHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithMaxLineSize sets the longest accepted line, in bytes.
func WithMaxLineSize(n int) Option {
	return func(r *Runner) {
		r.MaxLineSize = n
	}
}

// WithoutEnd suppresses the end-of-stream result.
func WithoutEnd() Option {
	return func(r *Runner) {
		r.SkipEnd = true
	}
}
