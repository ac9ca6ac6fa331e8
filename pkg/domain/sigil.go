package domain

// Sigil is the first byte of a trimmed line. The zero value means the line had
// no sigil: it was empty, or the stream ended.
type Sigil byte

const (
	SigilNone    Sigil = 0
	SigilOpen    Sigil = '(' // opens a child scope, closed by SigilClose
	SigilAttr    Sigil = ':' // opens a child scope that is never closed explicitly
	SigilSection Sigil = '@' // opens a scope that replaces a sibling section
	SigilClose   Sigil = ')' // closes the nearest SigilOpen
)

// SigilOf returns the sigil of an already trimmed line.
func SigilOf(trimmed []byte) Sigil {
	if len(trimmed) == 0 {
		return SigilNone
	}
	return Sigil(trimmed[0])
}

// Structural reports whether the sigil can change the scope stack.
func (s Sigil) Structural() bool {
	switch s {
	case SigilOpen, SigilAttr, SigilSection, SigilClose:
		return true
	}
	return false
}

// Kind names the structural role of the sigil, for logs and metric labels.
func (s Sigil) Kind() string {
	switch s {
	case SigilNone:
		return "none"
	case SigilOpen:
		return "open"
	case SigilAttr:
		return "attr"
	case SigilSection:
		return "section"
	case SigilClose:
		return "close"
	default:
		return "inert"
	}
}

// String returns the sigil as a one-character string, or "" for SigilNone.
func (s Sigil) String() string {
	if s == SigilNone {
		return ""
	}
	return string([]byte{byte(s)})
}
