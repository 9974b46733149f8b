package learnhub

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub/jwt"
)

// Config holds every tunable of the engine. Obtain one from [DefaultConfig],
// override fields, and pass it to [Builder.WithConfig]; the builder keeps its
// own copy.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// TokenConfig is the signing material and lifetime of one token class.
// Secret is used for hs256; PrivateKey/PublicKey for ed25519.
type TokenConfig struct {
	Secret     string
	PrivateKey []byte
	PublicKey  []byte
	TTL        time.Duration
}

// JWTConfig configures the three token classes. Each class has its own
// signing material so a token of one class never verifies as another.
type JWTConfig struct {
	Access     TokenConfig
	Refresh    TokenConfig
	Activation TokenConfig

	SigningMethod jwt.SigningMethod
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig configures the credential store.
//
// SnapshotTTL of zero keeps snapshots until logout or eviction, which is
// what makes the cache usable as a revocation list for long-lived refresh
// tokens.
type SessionConfig struct {
	RedisPrefix     string
	SnapshotTTL     time.Duration
	MaxSnapshotSize int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig configures bcrypt hashing and the minimum password length.
type PasswordConfig struct {
	Cost           int
	MinLength      int
	UpgradeOnLogin bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig configures login and activation throttling.
type SecurityConfig struct {
	ProductionMode bool

	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	EnableIPThrottle      bool

	EnableActivationThrottle bool
	MaxActivationAttempts    int
	ActivationWindow         time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig configures the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters and the authenticate latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS
====================================
*/

const (
	// DefaultAccessTTL is the access token lifetime.
	DefaultAccessTTL = 5 * time.Minute
	// DefaultRefreshTTL is the refresh token lifetime.
	DefaultRefreshTTL = 3 * 24 * time.Hour
	// DefaultActivationTTL is the activation ticket lifetime.
	DefaultActivationTTL = 15 * time.Minute
)

// DefaultConfig returns the configuration used when none is supplied.
// Secrets are empty and must be filled before Build.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Access:        TokenConfig{TTL: DefaultAccessTTL},
			Refresh:       TokenConfig{TTL: DefaultRefreshTTL},
			Activation:    TokenConfig{TTL: DefaultActivationTTL},
			SigningMethod: jwt.MethodHS256,
		},
		Session: SessionConfig{
			MaxSnapshotSize: 16 * 1024,
		},
		Password: PasswordConfig{
			Cost:      10,
			MinLength: 6,
		},
		Security: SecurityConfig{
			EnableIPThrottle:         true,
			MaxLoginAttempts:         5,
			LoginCooldownDuration:    10 * time.Minute,
			EnableActivationThrottle: true,
			MaxActivationAttempts:    5,
			ActivationWindow:         DefaultActivationTTL,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Access = cloneTokenConfig(cfg.JWT.Access)
	out.JWT.Refresh = cloneTokenConfig(cfg.JWT.Refresh)
	out.JWT.Activation = cloneTokenConfig(cfg.JWT.Activation)
	return out
}

func cloneTokenConfig(tc TokenConfig) TokenConfig {
	tc.PrivateKey = cloneBytes(tc.PrivateKey)
	tc.PublicKey = cloneBytes(tc.PublicKey)
	return tc
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.JWT.SigningMethod {
	case "", jwt.MethodHS256:
		classes := []struct {
			name string
			tc   TokenConfig
		}{
			{"access", c.JWT.Access},
			{"refresh", c.JWT.Refresh},
			{"activation", c.JWT.Activation},
		}
		seen := make(map[string]string, len(classes))
		for _, class := range classes {
			if class.tc.Secret == "" {
				return fmt.Errorf("JWT %s secret must be set", class.name)
			}
			if other, ok := seen[class.tc.Secret]; ok {
				return fmt.Errorf("JWT %s and %s secrets must differ", other, class.name)
			}
			seen[class.tc.Secret] = class.name
		}
	case jwt.MethodEd25519:
		for name, tc := range map[string]TokenConfig{
			"access":     c.JWT.Access,
			"refresh":    c.JWT.Refresh,
			"activation": c.JWT.Activation,
		} {
			if len(tc.PrivateKey) == 0 || len(tc.PublicKey) == 0 {
				return fmt.Errorf("JWT %s requires an ed25519 key pair", name)
			}
		}
	default:
		return errors.New("unsupported JWT signing method")
	}

	if c.JWT.Access.TTL <= 0 {
		return errors.New("JWT access TTL must be > 0")
	}
	if c.JWT.Refresh.TTL <= c.JWT.Access.TTL {
		return errors.New("JWT refresh TTL must exceed access TTL")
	}
	if c.JWT.Activation.TTL <= 0 {
		return errors.New("JWT activation TTL must be > 0")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT leeway must be within [0, 2m]")
	}

	if c.Session.MaxSnapshotSize <= 0 {
		return errors.New("Session MaxSnapshotSize must be > 0")
	}
	if c.Session.SnapshotTTL < 0 {
		return errors.New("Session SnapshotTTL must be >= 0")
	}

	if c.Password.Cost != 0 && (c.Password.Cost < 4 || c.Password.Cost > 31) {
		return errors.New("Password Cost must be within [4, 31]")
	}
	if c.Password.MinLength < 0 {
		return errors.New("Password MinLength must be >= 0")
	}

	if c.Security.MaxLoginAttempts < 0 {
		return errors.New("Security MaxLoginAttempts must be >= 0")
	}
	if c.Security.MaxLoginAttempts > 0 && c.Security.LoginCooldownDuration <= 0 {
		return errors.New("Security LoginCooldownDuration must be > 0 when login throttling is enabled")
	}
	if c.Security.EnableActivationThrottle {
		if c.Security.MaxActivationAttempts <= 0 {
			return errors.New("Security MaxActivationAttempts must be > 0 when activation throttling is enabled")
		}
		if c.Security.ActivationWindow <= 0 {
			return errors.New("Security ActivationWindow must be > 0 when activation throttling is enabled")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics latency histograms require Metrics.Enabled")
	}

	return nil
}

/*
====================================
LINT
====================================
*/

// LintWarning is a configuration smell that does not prevent Build.
type LintWarning struct {
	Code    string
	Message string
}

// LintResult is the list of warnings produced by [Config.Lint].
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

const minSecretLength = 32

// Lint reports settings that are legal but likely unintended in production.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code, msg string) {
		ws = append(ws, LintWarning{Code: code, Message: msg})
	}

	if c.JWT.Leeway > time.Minute {
		add("leeway_large", "JWT leeway above 1m widens the replay window of expired tokens")
	}
	if c.JWT.Access.TTL > 15*time.Minute {
		add("access_ttl_long", "access tokens live longer than 15m")
	}
	if c.JWT.Refresh.TTL > 30*24*time.Hour {
		add("refresh_ttl_long", "refresh tokens live longer than 30 days")
	}
	if c.JWT.SigningMethod == "" || c.JWT.SigningMethod == jwt.MethodHS256 {
		for name, tc := range map[string]TokenConfig{
			"access":     c.JWT.Access,
			"refresh":    c.JWT.Refresh,
			"activation": c.JWT.Activation,
		} {
			if tc.Secret != "" && len(tc.Secret) < minSecretLength {
				add("secret_short", fmt.Sprintf("%s secret is shorter than %d bytes", name, minSecretLength))
				break
			}
		}
	}
	if c.Session.SnapshotTTL > 0 && c.Session.SnapshotTTL < c.JWT.Refresh.TTL {
		add("snapshot_shorter_than_refresh", "cached snapshots expire before refresh tokens; refresh will report revoked sessions")
	}
	if c.Security.MaxLoginAttempts == 0 && !c.Security.EnableActivationThrottle {
		add("rate_limits_disabled", "both login and activation throttling are disabled")
	}
	if c.Security.ProductionMode && !c.Audit.Enabled {
		add("audit_disabled", "audit events are disabled in production mode")
	}

	return ws
}
