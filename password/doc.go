// Package password implements password hashing and verification with bcrypt.
//
// Hashes use the standard modular crypt format ($2a$<cost>$...). When the
// configured cost is raised, [Bcrypt.NeedsUpgrade] reports older hashes so the
// caller can re-hash on the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other learnhub package.
//   - Log plaintext passwords.
package password
