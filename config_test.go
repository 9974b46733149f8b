package learnhub

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigNeedsSecrets(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected default config without secrets to fail validation")
	}

	cfg = testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected test config to validate: %v", err)
	}
}

func TestValidateRejectsSharedSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Refresh.Secret = cfg.JWT.Access.Secret

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected shared secret error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"refresh not longer than access": func(c *Config) { c.JWT.Refresh.TTL = c.JWT.Access.TTL },
		"zero access ttl":                func(c *Config) { c.JWT.Access.TTL = 0 },
		"zero activation ttl":            func(c *Config) { c.JWT.Activation.TTL = 0 },
		"huge leeway":                    func(c *Config) { c.JWT.Leeway = time.Hour },
		"unknown signing method":         func(c *Config) { c.JWT.SigningMethod = "rs512" },
		"ed25519 without keys":           func(c *Config) { c.JWT.SigningMethod = "ed25519" },
		"negative snapshot ttl":          func(c *Config) { c.Session.SnapshotTTL = -time.Second },
		"zero snapshot size":             func(c *Config) { c.Session.MaxSnapshotSize = 0 },
		"bcrypt cost out of range":       func(c *Config) { c.Password.Cost = 40 },
		"login throttle without cooldown": func(c *Config) {
			c.Security.LoginCooldownDuration = 0
		},
		"activation throttle without budget": func(c *Config) {
			c.Security.MaxActivationAttempts = 0
		},
		"audit without buffer": func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		},
		"histograms without metrics": func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.EnableLatencyHistograms = true
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuildRequiresRedis(t *testing.T) {
	if _, err := New().WithConfig(testConfig()).Build(); err == nil {
		t.Fatal("expected Build without redis to fail")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)
	b := New().WithConfig(testConfig()).WithRedis(rdb)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestWithConfigCopies(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := testConfig()
	b := New().WithConfig(cfg).WithRedis(rdb)
	cfg.JWT.Access.Secret = ""

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build must use the copied config: %v", err)
	}
	defer engine.Close()

	if engine.Config().JWT.Access.Secret == "" {
		t.Fatal("expected engine to keep its own copy of the config")
	}
}

func TestLintDefaults(t *testing.T) {
	cfg := testConfig()
	if codes := cfg.Lint().Codes(); len(codes) != 0 {
		t.Fatalf("expected no warnings for test config, got %v", codes)
	}
}

func TestLintWarnings(t *testing.T) {
	cases := map[string]func(*Config){
		"leeway_large":                  func(c *Config) { c.JWT.Leeway = 90 * time.Second },
		"access_ttl_long":               func(c *Config) { c.JWT.Access.TTL = time.Hour },
		"refresh_ttl_long":              func(c *Config) { c.JWT.Refresh.TTL = 60 * 24 * time.Hour },
		"secret_short":                  func(c *Config) { c.JWT.Access.Secret = "short" },
		"snapshot_shorter_than_refresh": func(c *Config) { c.Session.SnapshotTTL = time.Hour },
		"rate_limits_disabled": func(c *Config) {
			c.Security.MaxLoginAttempts = 0
			c.Security.EnableActivationThrottle = false
		},
		"audit_disabled": func(c *Config) { c.Security.ProductionMode = true },
	}

	for code, mutate := range cases {
		t.Run(code, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			if !slices.Contains(cfg.Lint().Codes(), code) {
				t.Fatalf("expected %s warning, got %v", code, cfg.Lint().Codes())
			}
		})
	}
}
