// Package tui holds terminal presentation helpers for the CLI.
package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by ColorProfile.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or 0 when it is not a terminal.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// ColorProfile resolves a color mode for output written to f.
func ColorProfile(mode string, f *os.File) (termenv.Profile, error) {
	switch mode {
	case "", ColorAuto:
		if !IsTerminal(f) {
			return termenv.Ascii, nil
		}
		return termenv.EnvColorProfile(), nil
	case ColorAlways:
		return termenv.TrueColor, nil
	case ColorNever:
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
}
