package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrEthical07/learnhub"
)

const (
	// AccessCookie holds the access token set at login and refresh.
	AccessCookie = "access_token"
	// RefreshCookie holds the refresh token set at login and refresh.
	RefreshCookie = "refresh_token"
)

// Guard authenticates the request and, when roles are given, requires the
// identity to hold one of them. Unauthenticated requests get 401 and
// requests with a disallowed role get 403.
//
// The client IP is the peer address unless an outer layer that knows the
// trusted proxies already attached one with [learnhub.WithClientIP].
// Forwarding headers are never read here.
func Guard(engine *learnhub.Engine, roles ...learnhub.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				WriteError(w, learnhub.ErrUnauthenticated)
				return
			}

			token, ok := TokenFromRequest(r)
			if !ok {
				WriteError(w, learnhub.ErrUnauthenticated)
				return
			}

			ctx := r.Context()
			if _, ok := learnhub.ClientIPFromContext(ctx); !ok {
				ctx = learnhub.WithClientIP(ctx, RemoteIP(r))
			}
			ctx = learnhub.WithUserAgent(ctx, r.UserAgent())

			identity, err := engine.Authenticate(ctx, token)
			if err != nil {
				WriteError(w, err)
				return
			}
			if err := engine.Authorize(identity, roles...); err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

// TokenFromRequest returns the access token from the access_token cookie,
// falling back to the Authorization bearer header.
func TokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

// RemoteIP returns the host part of r.RemoteAddr.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
