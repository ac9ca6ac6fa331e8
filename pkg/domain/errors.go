package domain

import "errors"

// ErrArenaExhausted is returned when the string arena cannot grow past its configured limit.
// It is fatal for the session that hit it.
var ErrArenaExhausted = errors.New("arena exhausted")

// ErrStackExhausted is returned when the scope stack cannot grow past its configured limit.
// It is fatal for the session that hit it.
var ErrStackExhausted = errors.New("scope stack exhausted")

// ErrSessionClosed is returned by every call on a session after a fatal failure.
var ErrSessionClosed = errors.New("session closed")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
