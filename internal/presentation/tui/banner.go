package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tinysplit banner to w, colored for the terminal profile.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _   _                       _ _ _   ", "#818cf8"},
		{" | |_(_)_ __  _   _ ___ _ __ | (_) |_ ", "#a78bfa"},
		{" | __| | '_ \\| | | / __| '_ \\| | | __|", "#c084fc"},
		{" | |_| | | | | |_| \\__ \\ |_) | | | |_ ", "#e879f9"},
		{"  \\__|_|_| |_|\\__, |___/ .__/|_|_|\\__|", "#f472b6"},
		{"              |___/    |_|            ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
