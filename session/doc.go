// Package session provides the Redis-backed credential store: one JSON
// snapshot per identity, keyed by identity id.
//
// # Revocation
//
// The store doubles as the session revocation list. Authentication and
// refresh both require the snapshot to be present, so [Store.Delete] ends
// every session of that identity regardless of outstanding token lifetimes.
//
// # Consistency
//
// Writes are plain SETs with no locking or compare-and-swap. Concurrent
// [Store.Put] calls for the same id are last-write-wins.
//
// # What this package must NOT do
//
//   - Import learnhub, jwt, or middleware (no upward imports).
//   - Interpret token contents or make authorization decisions.
package session
