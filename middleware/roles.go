package middleware

import (
	"net/http"
	"slices"

	"github.com/MrEthical07/learnhub"
)

// RequireRoles rejects requests whose identity does not hold one of roles.
// It must run behind [Guard]; a request without an identity gets 401.
func RequireRoles(roles ...learnhub.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, learnhub.ErrUnauthenticated)
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, identity.Role) {
				WriteError(w, learnhub.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
