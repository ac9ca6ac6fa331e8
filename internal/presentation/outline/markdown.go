// Package outline renders a split document as a nested markdown list.
package outline

import (
	"fmt"
	"strings"

	"github.com/aretw0/tinysplit/pkg/domain"
)

type config struct {
	title string
	text  bool
}

// Option configures Markdown.
type Option func(*config)

// WithTitle adds a level-one heading above the list.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithText includes content lines under the scope that holds them.
func WithText() Option {
	return func(c *config) {
		c.text = true
	}
}

// Markdown produces a nested list with one item per opened scope.
// Each item is indented by its depth, so the list mirrors the stack.
// Closers and blank lines are not listed.
func Markdown(records []domain.LineRecord, opts ...Option) string {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	var sb strings.Builder
	if c.title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", c.title))
	}

	for _, rec := range records {
		if rec.Trimmed == nil {
			continue
		}
		depth := len(rec.Stack)
		switch {
		case rec.Pushed:
			writeItem(&sb, depth-1, codeSpan(*rec.Trimmed))
		case c.text && *rec.Trimmed != "" && !domain.SigilOf([]byte(*rec.Trimmed)).Structural():
			writeItem(&sb, depth, escapeText(*rec.Trimmed))
		}
	}
	return sb.String()
}

func writeItem(sb *strings.Builder, level int, label string) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString("- ")
	sb.WriteString(label)
	sb.WriteString("\n")
}

// codeSpan wraps s in enough backticks that none inside can end it.
func codeSpan(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"<", `\<`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
