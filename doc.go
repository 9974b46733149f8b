// Package learnhub is the session and authorization core of the learnhub
// e-learning backend. It issues short-lived access tokens and longer-lived
// refresh tokens, mirrors authenticated identities into a Redis credential
// store, and gates requests by role.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Session model
//
// Tokens carry only the identity id. Every gated request loads the identity
// from the credential store, so the cached snapshot is both a read cache and
// the revocation list: deleting it (logout) makes every outstanding token for
// that identity fail, while refresh tokens themselves are never rotated or
// consumed.
//
// # Architecture boundaries
//
// learnhub is the public surface. It exposes [Engine], [Builder], [Config],
// and value types. Flow orchestration, rate limiting, and audit dispatch live
// under internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients or encoding details in its public API.
//   - Import any sub-package that re-imports learnhub (no import cycles).
package learnhub
