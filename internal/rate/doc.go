// Package rate provides Redis-backed fixed-window counters for failed logins
// and activation code guesses.
//
// # Window semantics
//
// INCR + conditional EXPIRE on first hit. Key prefixes:
//   - lh:rl:login:     : failed logins per email
//   - lh:rl:login-ip:  : failed logins per client IP
//   - lh:rl:activation:: wrong activation codes per ticket digest
package rate
