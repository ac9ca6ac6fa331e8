package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/ports"
)

// Mask replaces the payload of a redacted scope.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks stored scopes matching
// any of the patterns. The sigil byte is kept, so a resumed session still
// nests and replaces scopes the same way; only the text is lost.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	// Copy so the caller's snapshot keeps the real text.
	cloned := *snap
	cloned.Stack = make([]string, len(snap.Stack))
	for i, entry := range snap.Stack {
		cloned.Stack[i] = m.mask(entry)
	}
	return m.next.Save(ctx, sessionID, &cloned)
}

func (m *redactMiddleware) mask(entry string) string {
	for _, p := range m.patterns {
		if p.MatchString(entry) {
			if entry == "" {
				return entry
			}
			return entry[:1] + Mask
		}
	}
	return entry
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
