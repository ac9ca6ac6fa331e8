package domain

// ScopeEvent describes a change to the scope stack.
type ScopeEvent struct {
	// Line is the 1-based line number that caused the change.
	Line int

	// Texts holds the affected scopes, outermost first.
	// For a push it holds exactly one entry.
	Texts []string

	// Depth is the stack depth after the change.
	Depth int
}

// Hooks defines callbacks for session observability.
// Hooks run synchronously on the goroutine that processes the line.
type Hooks struct {
	OnPush func(*ScopeEvent)
	OnPop  func(*ScopeEvent)
}
