package learnhub

import (
	"context"
	"errors"
	"testing"
)

func TestLoginSuccessCachesSnapshot(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	res, err := env.engine.Login(ctx, "U1@example.com", "password-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Identity.ID != "u1" {
		t.Fatalf("unexpected identity %+v", res.Identity)
	}

	cached, err := env.engine.Me(ctx, "u1")
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if cached.Email != "u1@example.com" || cached.PasswordHash != "" {
		t.Fatalf("unexpected snapshot %+v", cached)
	}
	if env.engine.MetricsSnapshot().Counters[MetricLoginSuccess] != 1 {
		t.Fatal("expected login success metric")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	if _, err := env.engine.Login(ctx, "u1@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.engine.Login(ctx, "nobody@example.com", "password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := env.engine.Me(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed login must not cache a snapshot, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) {
		cfg.Security.MaxLoginAttempts = 2
	})
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	for i := 0; i < 2; i++ {
		if _, err := env.engine.Login(ctx, "u1@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, err := env.engine.Login(ctx, "u1@example.com", "password-1"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}
}

func TestLoginThrottleDisabled(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) {
		cfg.Security.MaxLoginAttempts = 0
	})
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	if env.engine.SecurityReport().LoginThrottleActive {
		t.Fatal("expected report to show the login throttle as inactive")
	}
	for i := 0; i < 3; i++ {
		if _, err := env.engine.Login(ctx, "u1@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, err := env.engine.Login(ctx, "u1@example.com", "password-1"); err != nil {
		t.Fatalf("expected login to succeed with throttling disabled, got %v", err)
	}
}

func TestSocialAuthCreatesThenReuses(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	profile := SocialProfile{Email: "g@example.com", Name: "Gee", Avatar: "https://img.test/g.png"}

	first, err := env.engine.SocialAuth(ctx, profile)
	if err != nil {
		t.Fatalf("SocialAuth failed: %v", err)
	}
	if first.Identity.Avatar == nil || first.Identity.Avatar.URL != profile.Avatar {
		t.Fatalf("expected avatar from profile, got %+v", first.Identity.Avatar)
	}

	second, err := env.engine.SocialAuth(ctx, profile)
	if err != nil {
		t.Fatalf("second SocialAuth failed: %v", err)
	}
	if second.Identity.ID != first.Identity.ID {
		t.Fatalf("expected the same identity, got %s and %s", first.Identity.ID, second.Identity.ID)
	}

	if _, err := env.engine.Authenticate(ctx, second.Tokens.AccessToken); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	// Social accounts have no password.
	if _, err := env.engine.Login(ctx, "g@example.com", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.engine.UpdatePassword(ctx, first.Identity.ID, "x", "new-password"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for password-less account, got %v", err)
	}
}

func TestUpdateProfileRefreshesSnapshot(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)
	env.seedIdentity(t, "u2", "u2@example.com", "password-2", RoleUser)
	if _, err := env.engine.Login(ctx, "u1@example.com", "password-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	name := "Renamed"
	if _, err := env.engine.UpdateProfile(ctx, "u1", ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	cached, _ := env.engine.Me(ctx, "u1")
	if cached.Name != "Renamed" {
		t.Fatalf("expected cached name Renamed, got %q", cached.Name)
	}

	taken := "u2@example.com"
	if _, err := env.engine.UpdateProfile(ctx, "u1", ProfileUpdate{Email: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	if _, err := env.engine.UpdatePassword(ctx, "u1", "wrong", "password-2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.engine.UpdatePassword(ctx, "u1", "password-1", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if _, err := env.engine.UpdatePassword(ctx, "u1", "password-1", "password-2"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	if _, err := env.engine.Login(ctx, "u1@example.com", "password-2"); err != nil {
		t.Fatalf("Login with new password failed: %v", err)
	}
}

func TestUpdateAvatarReplacesPrevious(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	first, err := env.engine.UpdateAvatar(ctx, "u1", "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("UpdateAvatar failed: %v", err)
	}
	second, err := env.engine.UpdateAvatar(ctx, "u1", "data:image/png;base64,BBBB")
	if err != nil {
		t.Fatalf("second UpdateAvatar failed: %v", err)
	}

	if len(env.assets.destroyed) != 1 || env.assets.destroyed[0] != first.Avatar.PublicID {
		t.Fatalf("expected previous avatar destroyed, got %v", env.assets.destroyed)
	}
	cached, _ := env.engine.Me(ctx, "u1")
	if cached.Avatar == nil || cached.Avatar.PublicID != second.Avatar.PublicID {
		t.Fatalf("expected cached avatar %s, got %+v", second.Avatar.PublicID, cached.Avatar)
	}
}

func TestRecordPurchase(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.seedIdentity(t, "u1", "u1@example.com", "password-1", RoleUser)

	identity, err := env.engine.RecordPurchase(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	if !identity.HasCourse("c1") {
		t.Fatal("expected course to be recorded")
	}
	if _, err := env.engine.RecordPurchase(ctx, "u1", "c1"); !errors.Is(err, ErrAlreadyPurchased) {
		t.Fatalf("expected ErrAlreadyPurchased, got %v", err)
	}

	cached, err := env.engine.Me(ctx, "u1")
	if err != nil || !cached.HasCourse("c1") {
		t.Fatalf("expected cached snapshot with course, got %+v err=%v", cached, err)
	}
}

func TestAuditEventsDelivered(t *testing.T) {
	sink := NewChannelSink(16)
	cfg := testConfig()
	cfg.Audit.Enabled = true
	_, rdb := newTestRedis(t)

	engine, err := New().WithConfig(cfg).WithRedis(rdb).WithIdentityStore(newMemIdentities()).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := engine.Logout(context.Background(), "u1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	engine.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventLogout || event.IdentityID != "u1" || !event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a logout audit event")
	}
}
