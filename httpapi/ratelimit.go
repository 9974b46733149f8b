package httpapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/learnhub/internal/rate"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	xrate "golang.org/x/time/rate"
)

var errTooManyRequests = fmt.Errorf("%w: too many requests", rate.ErrRateLimited)

type RateLimitConfig struct {
	RPS       float64
	Burst     int
	MaxIPs    int
	IdleAfter time.Duration
}

// RateLimiter keeps one token bucket per client IP. Buckets idle longer than
// IdleAfter are evicted, and at most MaxIPs are tracked.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *expirable.LRU[string, *xrate.Limiter]
	limit   xrate.Limit
	burst   int
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.MaxIPs <= 0 {
		cfg.MaxIPs = 10000
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = 10 * time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &RateLimiter{
		buckets: expirable.NewLRU[string, *xrate.Limiter](cfg.MaxIPs, nil, cfg.IdleAfter),
		limit:   xrate.Limit(cfg.RPS),
		burst:   cfg.Burst,
	}
}

func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets.Get(ip)
	if !ok {
		bucket = xrate.NewLimiter(l.limit, l.burst)
	}
	// re-adding refreshes the idle deadline
	l.buckets.Add(ip, bucket)
	l.mu.Unlock()
	return bucket.Allow()
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return errTooManyRequests
			}
			return next(c)
		}
	}
}
