package learnhub

import (
	"context"
	"testing"
)

func TestHealthReportsRedis(t *testing.T) {
	env := newTestEnv(t, nil)

	if h := env.engine.Health(context.Background()); !h.RedisAvailable {
		t.Fatalf("expected redis available, got %+v", h)
	}

	env.mr.SetError("ERR injected failure")
	if h := env.engine.Health(context.Background()); h.RedisAvailable {
		t.Fatal("expected redis unavailable")
	}
}

func TestGetLoginAttempts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	for i := 0; i < 2; i++ {
		_, _ = env.engine.Login(ctx, "u1@example.com", "wrong")
	}
	got, err := env.engine.GetLoginAttempts(ctx, " U1@example.com ")
	if err != nil {
		t.Fatalf("GetLoginAttempts failed: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}

	if got, _ := env.engine.GetLoginAttempts(ctx, "nobody@example.com"); got != 0 {
		t.Fatalf("expected 0 for unknown email, got %d", got)
	}
}

func TestSecurityReport(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) {
		cfg.Audit.Enabled = true
	})

	r := env.engine.SecurityReport()
	if r.SigningAlgorithm != "hs256" || r.AccessTTL != DefaultAccessTTL || r.RefreshTTL != DefaultRefreshTTL {
		t.Fatalf("unexpected report %+v", r)
	}
	if !r.LoginThrottleActive || !r.ActivationThrottleActive || !r.AuditEnabled {
		t.Fatalf("expected throttles and audit active, got %+v", r)
	}
	if r.RefreshRotationEnabled {
		t.Fatal("refresh rotation must be reported off")
	}

	var nilEngine *Engine
	if got := nilEngine.SecurityReport(); got.AccessTTL != 0 {
		t.Fatalf("expected zero report, got %+v", got)
	}
}
