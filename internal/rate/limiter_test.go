package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterTest(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return New(rdb, cfg), mr
}

func TestLoginBudget(t *testing.T) {
	l, mr := newLimiterTest(t, Config{
		EnableIPThrottle:      true,
		MaxLoginAttempts:      3,
		LoginCooldownDuration: time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.CheckLogin(ctx, "Ada@Example.com", "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d: unexpected check error %v", i, err)
		}
		if err := l.IncrementLogin(ctx, "ada@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d: unexpected increment error %v", i, err)
		}
	}
	if err := l.CheckLogin(ctx, "ada@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("third attempt must still be checked, got %v", err)
	}
	if err := l.IncrementLogin(ctx, "ada@example.com", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on 3rd failure, got %v", err)
	}
	if err := l.CheckLogin(ctx, "ada@example.com", "10.0.0.2"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected identifier budget to apply across IPs, got %v", err)
	}

	n, err := l.GetLoginAttempts(ctx, "ADA@example.com")
	if err != nil || n != 3 {
		t.Fatalf("expected 3 attempts, got %d err=%v", n, err)
	}

	mr.FastForward(time.Minute + time.Second)
	if err := l.CheckLogin(ctx, "ada@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected window to reset, got %v", err)
	}
}

func TestResetLogin(t *testing.T) {
	l, _ := newLimiterTest(t, Config{MaxLoginAttempts: 1, LoginCooldownDuration: time.Minute})
	ctx := context.Background()

	_ = l.IncrementLogin(ctx, "ada@example.com", "")
	_ = l.IncrementLogin(ctx, "ada@example.com", "")
	if err := l.CheckLogin(ctx, "ada@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected limited, got %v", err)
	}
	if err := l.ResetLogin(ctx, "ada@example.com", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := l.CheckLogin(ctx, "ada@example.com", ""); err != nil {
		t.Fatalf("expected reset budget, got %v", err)
	}
}

func TestActivationBudget(t *testing.T) {
	l, _ := newLimiterTest(t, Config{
		EnableActivationThrottle: true,
		MaxActivationAttempts:    2,
		ActivationWindow:         15 * time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.CheckActivation(ctx, "ticket"); err != nil {
			t.Fatalf("guess %d: unexpected error %v", i, err)
		}
		if err := l.IncrementActivation(ctx, "ticket"); err != nil {
			t.Fatalf("guess %d: increment error %v", i, err)
		}
	}
	if err := l.CheckActivation(ctx, "ticket"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ticket to be locked after 2 wrong codes, got %v", err)
	}
	if err := l.CheckActivation(ctx, "other-ticket"); err != nil {
		t.Fatalf("expected other ticket unaffected, got %v", err)
	}
}

func TestLoginThrottleDisabledWithZeroBudget(t *testing.T) {
	l, mr := newLimiterTest(t, Config{EnableIPThrottle: true, LoginCooldownDuration: time.Minute})
	ctx := context.Background()

	if l.LoginThrottleEnabled() {
		t.Fatal("expected zero budget to disable the login throttle")
	}
	for i := 0; i < 5; i++ {
		if err := l.IncrementLogin(ctx, "ada@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("increment %d: unexpected error %v", i, err)
		}
	}
	if err := l.CheckLogin(ctx, "ada@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected disabled throttle to pass, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no counters written, got %v", mr.Keys())
	}
}

func TestActivationThrottleDisabled(t *testing.T) {
	l, _ := newLimiterTest(t, Config{})
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_ = l.IncrementActivation(ctx, "ticket")
	}
	if err := l.CheckActivation(ctx, "ticket"); err != nil {
		t.Fatalf("expected disabled throttle to pass, got %v", err)
	}
}
