// Package internal holds helpers private to learnhub, currently the
// random activation code generator.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - config: environment and file configuration for the service binary
//   - flows: pure-function orchestrators for the session operations
//   - logger: slog construction with trace correlation
//   - rate: Redis-backed login and activation throttles
//   - security: security posture report
//   - telemetry: OpenTelemetry provider setup
package internal
