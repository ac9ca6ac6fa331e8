package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 1MB, the largest document accepted from remote callers.
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TINYSPLIT_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput checks a document received from a remote caller: it enforces
// the size limit, requires valid UTF-8 and strips control characters other
// than ASCII whitespace (tab, newline, vertical tab, form feed, carriage
// return). C0 controls such as NUL and ESC are removed, and so are C1 controls
// (U+0080 to U+009F, including U+0085).
func SanitizeInput(input string) (string, error) {
	limit := MaxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated, so a document is parsed whole or not at all.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	return stripControl(input, true), nil
}

// StripControl removes every control character, including tabs and line breaks.
// It keeps ANSI sequences from reaching the terminal.
func StripControl(s string) string {
	return stripControl(s, false)
}

func stripControl(s string, keepWhitespace bool) string {
	keep := func(r rune) bool {
		if !unicode.IsControl(r) {
			return true
		}
		return keepWhitespace && isASCIISpace(r)
	}

	// Fast path: nothing to strip.
	clean := true
	for _, r := range s {
		if !keep(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIISpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// MaxInputSize returns the configured input limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
