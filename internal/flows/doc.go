// Package flows contains the orchestration of the engine's session
// operations: authenticate, refresh, and logout.
//
// Each Run function accepts a typed dependency struct of funcs and small
// interfaces and returns a result with a classified failure kind. The root
// package maps failure kinds to its own sentinel errors, metrics, and audit
// events.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import learnhub (to avoid import cycles).
//   - Perform I/O directly; all I/O goes through the dependency structs.
package flows
