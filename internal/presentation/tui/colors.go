package tui

import (
	"fmt"

	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/muesli/termenv"
)

// Palette maps sigil kinds to colors.
var Palette = map[string]string{
	"open":    "#818cf8",
	"attr":    "#34d399",
	"section": "#f472b6",
	"close":   "#fb7185",
}

// NewColorRenderer returns a runner.LineRenderer that colors the line by its
// sigil and dims the breadcrumb. With termenv.Ascii it matches runner.PlainRenderer.
func NewColorRenderer(p termenv.Profile) runner.LineRenderer {
	return func(rec domain.LineRecord) string {
		if p == termenv.Ascii {
			return runner.PlainRenderer(rec)
		}

		depth := termenv.String(fmt.Sprintf("[%d]", len(rec.Stack))).Faint()
		crumb := termenv.String(runner.Breadcrumb(rec.Stack)).Faint()

		if rec.Trimmed == nil {
			end := termenv.String("<end>").Italic()
			return fmt.Sprintf("%s %s | %s", depth, end, crumb)
		}

		text := termenv.String(runner.StripControl(*rec.Trimmed))
		kind := domain.SigilOf([]byte(*rec.Trimmed)).Kind()
		if color, ok := Palette[kind]; ok {
			text = text.Foreground(p.Color(color))
		}
		if rec.Pushed {
			text = text.Bold()
		}
		return fmt.Sprintf("%s %s | %s", depth, text, crumb)
	}
}
