package scope

import "github.com/aretw0/tinysplit/pkg/domain"

// Sigils is read-only access to the sigils of an open stack.
type Sigils interface {
	Len() int
	SigilAt(i int) domain.Sigil
}

// Decision is the outcome of dispatching one line.
type Decision struct {
	// Pop reports whether the stack must be truncated to PopTo.
	Pop   bool
	PopTo int

	// Push reports whether the line opens a new scope.
	Push bool

	// Recovered is set when a ')' found no open '(' and cleared the stack.
	Recovered bool
}

// Decide computes the transition for trimmed against the stack as it was
// before the line.
func Decide(trimmed []byte, stack Sigils) Decision {
	switch domain.SigilOf(trimmed) {
	case domain.SigilOpen, domain.SigilAttr:
		return Decision{Push: true}

	case domain.SigilSection:
		d := Decision{Push: len(trimmed) > 1}
		if i, sigil, ok := nearestBoundary(stack, 0, domain.SigilSection, domain.SigilOpen); ok && sigil == domain.SigilSection {
			d.Pop, d.PopTo = true, i
		}
		return d

	case domain.SigilClose:
		// The root is never inspected: a ')' that finds no '(' above it
		// clears the stack, root included.
		if i, _, ok := nearestBoundary(stack, 1, domain.SigilOpen); ok {
			return Decision{Pop: true, PopTo: i}
		}
		closesRoot := stack.Len() > 0 && stack.SigilAt(0) == domain.SigilOpen
		return Decision{Pop: true, PopTo: 0, Recovered: !closesRoot}
	}

	return Decision{}
}

// nearestBoundary scans from the top down to floor (inclusive) and returns the
// first entry whose sigil is one of kinds.
func nearestBoundary(stack Sigils, floor int, kinds ...domain.Sigil) (int, domain.Sigil, bool) {
	for i := stack.Len() - 1; i >= floor; i-- {
		sigil := stack.SigilAt(i)
		for _, k := range kinds {
			if sigil == k {
				return i, sigil, true
			}
		}
	}
	return 0, domain.SigilNone, false
}
