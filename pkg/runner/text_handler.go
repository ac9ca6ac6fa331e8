package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/pkg/domain"
)

// LineRenderer formats one record for human consumption, without a trailing newline.
type LineRenderer func(rec domain.LineRecord) string

// TextHandler writes one breadcrumb line per result.
type TextHandler struct {
	Writer   io.Writer
	Renderer LineRenderer
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the line renderer.
func WithTextHandlerRenderer(renderer LineRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for plain text output.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer:   w,
		Renderer: PlainRenderer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Output(ctx context.Context, res tinysplit.Result) error {
	_, err := fmt.Fprintln(h.Writer, h.Renderer(res.Record()))
	return err
}

// PlainRenderer renders "[depth] text | crumb", with control characters removed.
// The end-of-stream record renders as "[depth] <end> | crumb".
func PlainRenderer(rec domain.LineRecord) string {
	text := "<end>"
	if rec.Trimmed != nil {
		text = StripControl(*rec.Trimmed)
	}
	return fmt.Sprintf("[%d] %s | %s", len(rec.Stack), text, Breadcrumb(rec.Stack))
}

// Breadcrumb joins the stack outermost first.
func Breadcrumb(stack []string) string {
	parts := make([]string, len(stack))
	for i, s := range stack {
		parts[i] = StripControl(s)
	}
	return strings.Join(parts, " > ")
}
