package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/internal/logging"
)

// ErrLineTooLong is returned when a line exceeds the configured maximum size.
var ErrLineTooLong = errors.New("line exceeds maximum allowed size")

// Runner feeds lines from a reader to a Session.
type Runner struct {
	Session     *tinysplit.Session
	Handler     OutputHandler
	Logger      *slog.Logger
	MaxLineSize int
	SkipEnd     bool

	sessionOpts []tinysplit.Option
}

// NewRunner creates a Runner. Without WithSession it starts a fresh session.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		MaxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Session == nil {
		r.Session = tinysplit.New(append([]tinysplit.Option{tinysplit.WithLogger(r.Logger)}, r.sessionOpts...)...)
	}
	if r.Handler == nil {
		r.Handler = HandlerFunc(func(context.Context, tinysplit.Result) error { return nil })
	}
	return r
}

// Run reads in line by line until EOF, context cancellation or a fatal error.
// Both "\n" and "\r\n" terminators are stripped. A final line without a
// terminator is still processed.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), r.MaxLineSize)

	read := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		read++

		res, err := r.Session.ProcessLine(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("input line %d: %w", read, err)
		}
		if err := r.Handler.Output(ctx, res); err != nil {
			return fmt.Errorf("output failed at line %d: %w", res.Line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: input line %d, limit %d", ErrLineTooLong, read+1, r.MaxLineSize)
		}
		return fmt.Errorf("failed to read input: %w", err)
	}

	r.Logger.Debug("Input exhausted", "lines", r.Session.Lines(), "depth", r.Session.Depth())

	if r.SkipEnd {
		return nil
	}
	if err := r.Handler.Output(ctx, r.Session.End()); err != nil {
		return fmt.Errorf("output failed at end of stream: %w", err)
	}
	return nil
}
