/*
Package scope implements the scope stack and the sigil dispatcher.

The stack holds arena offsets, one per open scope, and reads sigils back from the
arena without copying. The dispatcher is a pure function over the new line and
the pre-pop stack: it decides how far to pop and whether the line opens a scope.

# Rules

  - '(' and ':' always push.
  - '@' replaces the nearest '@' sibling, or nests under the nearest '('. It pushes
    only when it carries text after the sigil.
  - ')' closes the nearest '(' above the root, or clears the stack when there is none.
  - Anything else, including an empty line, leaves the stack alone.
*/
package scope
