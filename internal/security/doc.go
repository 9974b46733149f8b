// Package security builds the posture report returned by
// learnhub.Engine.SecurityReport.
//
// # What this package must NOT do
//
//   - Read secrets or key material into the report.
//   - Perform I/O; the report is derived from configuration alone.
package security
