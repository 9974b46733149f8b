package learnhub

import "context"

type clientIPContextKey struct{}
type userAgentContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The engine uses it
// for per-IP login throttling and audit records.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithUserAgent attaches the HTTP User-Agent to ctx for audit records.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

// ClientIPFromContext returns the IP attached by [WithClientIP].
func ClientIPFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok && ip != ""
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ClientIPFromContext(ctx)
	return ip
}

func userAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	userAgent, _ := ctx.Value(userAgentContextKey{}).(string)
	return userAgent
}
