package learnhub

import (
	"context"
	"time"
)

// HealthStatus reports whether the credential store answered a ping.
type HealthStatus struct {
	RedisAvailable bool          `json:"redisAvailable"`
	RedisLatency   time.Duration `json:"redisLatency"`
}

// Health pings the credential store. It never returns an error; an
// unreachable store is reported as RedisAvailable=false.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.snapshots == nil {
		return HealthStatus{}
	}

	start := time.Now()
	err := e.snapshots.Ping(ctx)
	return HealthStatus{
		RedisAvailable: err == nil,
		RedisLatency:   time.Since(start),
	}
}

// GetLoginAttempts returns the failed login counter for email. Unknown
// emails report zero, as does an engine with login throttling disabled.
func (e *Engine) GetLoginAttempts(ctx context.Context, email string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	email = normalizeEmail(email)
	if e.limiter == nil || email == "" {
		return 0, nil
	}
	return e.limiter.GetLoginAttempts(ctx, email)
}
