package learnhub

import (
	"errors"
	"io"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/learnhub/internal/audit"
	"github.com/MrEthical07/learnhub/internal/flows"
	"github.com/MrEthical07/learnhub/internal/rate"
	"github.com/MrEthical07/learnhub/jwt"
	"github.com/MrEthical07/learnhub/password"
	"github.com/MrEthical07/learnhub/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// Build once, and discard it.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	identities IdentityStore
	hasher     PasswordHasher
	assets     AssetHost
	mailer     Mailer
	auditSink  AuditSink
	logger     *slog.Logger
	clock      func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client backing the credential store and rate limiter. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithIdentityStore sets the durable account store. Account operations
// return [ErrEngineNotReady] without one.
func (b *Builder) WithIdentityStore(store IdentityStore) *Builder {
	b.identities = store
	return b
}

// WithPasswordHasher overrides the bcrypt hasher built from Config.Password.
func (b *Builder) WithPasswordHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithAssetHost sets the image host used by UpdateAvatar.
func (b *Builder) WithAssetHost(host AssetHost) *Builder {
	b.assets = host
	return b
}

// WithMailer sets the transactional mail sender used by Register.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithAuditSink sets where audit events go. It has no effect unless
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for warnings the engine cannot return to the
// caller, such as a cache write failing after a durable write.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock overrides time.Now for token issuance and verification.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithMetricsEnabled turns the engine's in-process counters on or off.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms records operation latency buckets in addition to
// counters. Build fails if histograms are on while metrics are off.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine.
//
// A Builder can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		config:     cfg,
		logger:     logger,
		clock:      b.clock,
		identities: b.identities,
		assets:     b.assets,
		mailer:     b.mailer,
	}

	// -------- TOKEN MANAGERS --------
	var err error
	if engine.access, err = newTokenManager(cfg.JWT, cfg.JWT.Access, b.clock); err != nil {
		return nil, err
	}
	if engine.refresh, err = newTokenManager(cfg.JWT, cfg.JWT.Refresh, b.clock); err != nil {
		return nil, err
	}
	if engine.activation, err = newTokenManager(cfg.JWT, cfg.JWT.Activation, b.clock); err != nil {
		return nil, err
	}

	// -------- CREDENTIAL STORE --------
	engine.snapshots = session.NewStore[Identity](
		b.redis,
		cfg.Session.RedisPrefix,
		cfg.Session.SnapshotTTL,
		cfg.Session.MaxSnapshotSize,
	)

	engine.limiter = rate.New(b.redis, rate.Config{
		EnableIPThrottle:         cfg.Security.EnableIPThrottle,
		MaxLoginAttempts:         cfg.Security.MaxLoginAttempts,
		LoginCooldownDuration:    cfg.Security.LoginCooldownDuration,
		EnableActivationThrottle: cfg.Security.EnableActivationThrottle,
		MaxActivationAttempts:    cfg.Security.MaxActivationAttempts,
		ActivationWindow:         cfg.Security.ActivationWindow,
	})

	if b.hasher != nil {
		engine.hasher = b.hasher
	} else {
		h, err := password.NewBcrypt(password.Config{Cost: cfg.Password.Cost})
		if err != nil {
			return nil, err
		}
		engine.hasher = h
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	engine.flows = flows.Deps[Identity, TokenPair]{
		Authenticate: flows.AuthenticateDeps[Identity]{
			ParseAccess:      engine.parseSessionID(engine.access),
			Snapshots:        engine.snapshots,
			SnapshotNotFound: session.ErrNotFound,
			Now:              engine.now,
			Observe: func(d time.Duration) {
				engine.metrics.Observe(MetricAuthenticateLatency, d)
			},
		},
		Refresh: flows.RefreshDeps[Identity, TokenPair]{
			ParseRefresh:     engine.parseSessionID(engine.refresh),
			Snapshots:        engine.snapshots,
			SnapshotNotFound: session.ErrNotFound,
			IssueTokens:      engine.issuePair,
		},
		Logout: flows.LogoutDeps{
			Snapshots: engine.snapshots,
		},
	}

	b.built = true

	return engine, nil
}

func newTokenManager(jc JWTConfig, tc TokenConfig, clock func() time.Time) (*jwt.Manager, error) {
	cfg := jwt.Config{
		TTL:           tc.TTL,
		SigningMethod: jc.SigningMethod,
		Issuer:        jc.Issuer,
		Audience:      jc.Audience,
		Leeway:        jc.Leeway,
		Now:           clock,
	}
	if jc.SigningMethod == jwt.MethodEd25519 {
		cfg.PrivateKey = cloneBytes(tc.PrivateKey)
		cfg.PublicKey = cloneBytes(tc.PublicKey)
	} else {
		cfg.PrivateKey = []byte(tc.Secret)
	}
	return jwt.NewManager(cfg)
}
