/*
Package domain contains the core vocabulary shared by the tinysplit packages.

It defines the sigils that classify a line, the serializable records produced per
line, the snapshot used to persist a session, and the sentinel errors. This package
is kept pure and free of I/O, following the same layering as the adapters that
depend on it.

# Key Entities

  - Sigil: The first byte of a trimmed line and its structural role.
  - LineRecord: A self-contained, serializable copy of one line's outcome.
  - Snapshot: The open scopes of a session, enough to resume it later.
  - Hooks: Callbacks fired when scopes are pushed or popped.
*/
package domain
