// Package jwt issues and verifies the signed tokens used by learnhub: access
// and refresh session tokens carrying an identity id, and activation tickets
// carrying a pending registration plus its one-time code.
//
// One [Manager] serves one token class. Secrets, TTLs, and clocks are never
// shared between classes.
package jwt
