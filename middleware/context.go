package middleware

import (
	"context"

	"github.com/MrEthical07/learnhub"
)

type identityContextKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *learnhub.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity attached by [Guard] or [WithIdentity].
func IdentityFromContext(ctx context.Context) (*learnhub.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*learnhub.Identity)
	return identity, ok && identity != nil
}
