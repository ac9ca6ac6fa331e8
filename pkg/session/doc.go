/*
Package session persists splitting sessions across calls.

A Manager lets a document arrive in pieces: each Feed restores the stored
snapshot, runs the new lines and saves the result. Calls for the same session
ID are serialized with a per-ID mutex, and optionally with a distributed lock
when several replicas share a store.
*/
package session
