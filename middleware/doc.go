// Package middleware exposes net/http adapters for the learnhub
// authorization gate.
//
// # Guards
//
//   - [Guard]: reads the access token from the access_token cookie or the
//     Authorization bearer header, authenticates it against the credential
//     store, optionally checks roles, and attaches the identity to the
//     request context.
//   - [RequireRoles]: role check only, for handlers already behind Guard.
//
// Failures are written with [WriteError] as {"success": false, "message": ...}.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Refresh tokens on the caller's behalf.
package middleware
