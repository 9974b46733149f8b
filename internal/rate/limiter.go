package rate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration

	EnableActivationThrottle bool
	MaxActivationAttempts    int
	ActivationWindow         time.Duration
}

// Limiter enforces per-identifier and per-IP budgets for failed logins and
// per-ticket budgets for activation code guesses, using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// LoginThrottleEnabled reports whether failed logins are counted at all.
// A MaxLoginAttempts of zero disables the login throttle.
func (l *Limiter) LoginThrottleEnabled() bool {
	return l.config.MaxLoginAttempts > 0
}

// CheckLogin checks whether the identifier+IP pair is within the failed
// login budget. Returns [ErrRateLimited] once MaxLoginAttempts failures
// are recorded in the current window.
func (l *Limiter) CheckLogin(ctx context.Context, identifier, ip string) error {
	if !l.LoginThrottleEnabled() {
		return nil
	}
	if err := l.checkCounter(ctx, loginKey(identifier), l.config.MaxLoginAttempts); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, loginIPKey(ip), l.config.MaxLoginAttempts); err != nil {
			return err
		}
	}

	return nil
}

// IncrementLogin records a failed login attempt for the identifier+IP pair.
func (l *Limiter) IncrementLogin(ctx context.Context, identifier, ip string) error {
	if !l.LoginThrottleEnabled() {
		return nil
	}
	count, err := l.incrementWithTTL(ctx, loginKey(identifier), l.config.LoginCooldownDuration)
	if err != nil {
		return err
	}
	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	if l.config.EnableIPThrottle && ip != "" {
		count, err = l.incrementWithTTL(ctx, loginIPKey(ip), l.config.LoginCooldownDuration)
		if err != nil {
			return err
		}
		if count >= int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}

	return nil
}

// ResetLogin clears the failed-login counters after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, identifier, ip string) error {
	if !l.LoginThrottleEnabled() {
		return nil
	}
	keys := []string{loginKey(identifier)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, loginIPKey(ip))
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// GetLoginAttempts returns the current failed attempt counter for an identifier.
// Missing keys return zero and do not reveal account existence.
func (l *Limiter) GetLoginAttempts(ctx context.Context, identifier string) (int, error) {
	count, err := l.redis.Get(ctx, loginKey(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// CheckActivation rejects further code guesses for a ticket that already
// used up its budget.
func (l *Limiter) CheckActivation(ctx context.Context, ticket string) error {
	if !l.config.EnableActivationThrottle {
		return nil
	}
	return l.checkCounter(ctx, activationKey(ticket), l.config.MaxActivationAttempts)
}

// IncrementActivation records a wrong code for ticket.
func (l *Limiter) IncrementActivation(ctx context.Context, ticket string) error {
	if !l.config.EnableActivationThrottle {
		return nil
	}
	_, err := l.incrementWithTTL(ctx, activationKey(ticket), l.config.ActivationWindow)
	return err
}

func (l *Limiter) checkCounter(ctx context.Context, key string, maxAttempts int) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(maxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func loginKey(identifier string) string {
	return "lh:rl:login:" + strings.ToLower(strings.TrimSpace(identifier))
}

func loginIPKey(ip string) string {
	return "lh:rl:login-ip:" + ip
}

// Tickets are long; only a digest is used as the key.
func activationKey(ticket string) string {
	sum := sha256.Sum256([]byte(ticket))
	return "lh:rl:activation:" + hex.EncodeToString(sum[:16])
}
