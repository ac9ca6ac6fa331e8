package domain

// LineRecord is a self-contained copy of the outcome of one line.
// Unlike tinysplit.Result it owns its strings and stays valid forever.
type LineRecord struct {
	// Line is the 1-based position of the line in its session.
	// Zero marks the end-of-stream record.
	Line int `json:"line"`

	// Trimmed is nil for the end-of-stream record, and "" for an empty line.
	Trimmed *string `json:"trimmed"`

	// Sigil is "" when the line has none.
	Sigil string `json:"sigil"`

	Pushed bool     `json:"pushed,omitempty"`
	Popped []string `json:"popped,omitempty"`

	// Recovered marks a ')' that matched no '(' and cleared the stack.
	Recovered bool `json:"recovered,omitempty"`

	// Stack is the ancestor chain after the line, outermost first.
	Stack []string `json:"stack"`
}

// Snapshot holds the open scopes of a session, enough to resume it later.
type Snapshot struct {
	// Stack holds the text of every open scope, outermost first.
	Stack []string `json:"stack"`

	// Lines counts the lines processed so far.
	Lines int `json:"lines"`

	// Sealed holds the encrypted snapshot when a store encrypts at rest.
	// Stack is empty in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Stack: []string{}}
}

// Depth returns the number of open scopes.
func (s *Snapshot) Depth() int {
	return len(s.Stack)
}
