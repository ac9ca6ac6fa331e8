/*
Package tinysplit is a line-oriented structural parser for outline-style notations.

Each line is trimmed and classified by its first byte, its sigil. A small set of
sigils opens and closes scopes, and the parser keeps the chain of open scopes so
that every line can be placed under its ancestors. Nesting is signaled inline by
the sigils rather than by indentation.

# Sigils

  - '(' opens a scope that a later ')' closes.
  - ':' opens a scope (typically an attribute) that stays open until an ancestor closes.
  - '@' opens a section. A new '@' replaces the nearest '@' sibling instead of nesting
    under it; a bare '@' only closes the current section.
  - ')' closes the nearest '('. An unmatched ')' clears the whole stack.
  - Any other first byte, and empty lines, leave the stack unchanged.

# Memory

Trimmed lines are copied into an append-only arena. A line that does not open a
scope lives in the arena's scratch region and is overwritten by the next line, so
a long document only allocates for the scopes it keeps open.

# Usage

	s := tinysplit.New()
	for _, line := range []string{"(BLOCK", ":a1", "@section1", "text", ")"} {
		res, err := s.ProcessString(line)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Depth(), res.Text(), res.Stack())
	}
	final := s.End()
	fmt.Println(final.Stack())

A Result borrows the arena: its Trimmed slice is only valid until the next call.
Use Result.Record for a copy that outlives the session.
*/
package tinysplit
