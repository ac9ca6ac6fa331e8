package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// Keep is the length of the common stack prefix.
	Keep int `json:"keep"`

	// Popped holds the entries removed above Keep, outermost first.
	Popped []string `json:"popped,omitempty"`

	// Pushed holds the entries added above Keep, outermost first.
	Pushed []string `json:"pushed,omitempty"`

	// Lines is the number of lines processed between the snapshots.
	Lines int `json:"lines"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap.
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}
	if oldSnap == nil {
		oldSnap = NewSnapshot()
	}

	keep := 0
	for keep < len(oldSnap.Stack) && keep < len(newSnap.Stack) && oldSnap.Stack[keep] == newSnap.Stack[keep] {
		keep++
	}

	diff := &SnapshotDiff{
		Keep:  keep,
		Lines: newSnap.Lines - oldSnap.Lines,
	}
	if keep < len(oldSnap.Stack) {
		diff.Popped = append([]string(nil), oldSnap.Stack[keep:]...)
	}
	if keep < len(newSnap.Stack) {
		diff.Pushed = append([]string(nil), newSnap.Stack[keep:]...)
	}

	if diff.Popped == nil && diff.Pushed == nil && diff.Lines == 0 {
		return nil
	}
	return diff
}
