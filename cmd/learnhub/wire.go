package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/assets"
	"github.com/MrEthical07/learnhub/catalog"
	"github.com/MrEthical07/learnhub/httpapi"
	"github.com/MrEthical07/learnhub/internal/config"
	"github.com/MrEthical07/learnhub/mail"
	otelexport "github.com/MrEthical07/learnhub/metrics/export/otel"
	promexport "github.com/MrEthical07/learnhub/metrics/export/prometheus"
	"github.com/MrEthical07/learnhub/social/google"
	"github.com/MrEthical07/learnhub/store/memory"
	mongostore "github.com/MrEthical07/learnhub/store/mongo"
	pgstore "github.com/MrEthical07/learnhub/store/postgres"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
)

// durableStore is what every backend under store/ provides.
type durableStore interface {
	learnhub.IdentityStore
	catalog.CourseRepository
	catalog.OrderRepository
	catalog.NotificationRepository
	catalog.LayoutRepository
}

type openedStore struct {
	durableStore
	migrate func(context.Context) error
	close   func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*openedStore, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Store.Driver {
	case "memory":
		log.Warn("using in-memory store; data is lost on exit")
		return &openedStore{durableStore: memory.New(), close: noop}, nil

	case "mongo":
		client, err := mongostore.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		st := mongostore.New(client.Database(cfg.Store.MongoDatabase))
		return &openedStore{durableStore: st, migrate: st.EnsureIndexes, close: client.Disconnect}, nil

	case "postgres":
		pool, err := pgstore.Open(ctx, cfg.Store.PostgresDSN, pgstore.PoolConfig{})
		if err != nil {
			return nil, err
		}
		st := pgstore.New(pool)
		return &openedStore{
			durableStore: st,
			migrate:      st.Migrate,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newMailer(cfg *config.Config, log *slog.Logger) (learnhub.Mailer, error) {
	if cfg.SMTP.Username == "" {
		log.Warn("smtp credentials not set; outgoing mail is recorded, not sent")
		return mail.NewRecorder(), nil
	}
	return mail.NewSMTP(cfg.SMTP, log)
}

func newAssetHost(cfg *config.Config, log *slog.Logger) (learnhub.AssetHost, error) {
	if cfg.Cloud.CloudName == "" {
		log.Warn("cloudinary not configured; images are kept in memory")
		return assets.NewMemory("https://assets.invalid"), nil
	}
	return assets.NewCloudinary(cfg.Cloud, &http.Client{Timeout: 30 * time.Second})
}

// app is the fully wired server and everything that must be closed with it.
type app struct {
	engine   *learnhub.Engine
	server   *httpapi.Server
	store    *openedStore
	redis    *redis.Client
	exporter *otelexport.Exporter
}

func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger, meters metric.MeterProvider) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	a.redis = redis.NewClient(redisOpts)

	a.store, err = openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return nil, err
	}
	host, err := newAssetHost(cfg, log)
	if err != nil {
		return nil, err
	}

	engineCfg := cfg.Engine()
	for _, w := range engineCfg.Lint() {
		log.Warn("config lint", slog.String("code", w.Code), slog.String("message", w.Message))
	}

	a.engine, err = learnhub.New().
		WithConfig(engineCfg).
		WithRedis(a.redis).
		WithIdentityStore(a.store).
		WithMailer(mailer).
		WithAssetHost(host).
		WithAuditSink(learnhub.NewSlogSink(log.With(slog.String("component", "audit")))).
		WithLogger(log).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	if err := a.engine.Ping(ctx); err != nil {
		return nil, err
	}
	report := a.engine.SecurityReport()
	log.Info("security posture",
		slog.Bool("production", report.ProductionMode),
		slog.String("signing", report.SigningAlgorithm),
		slog.Duration("access_ttl", report.AccessTTL),
		slog.Duration("refresh_ttl", report.RefreshTTL),
		slog.Bool("login_throttle", report.LoginThrottleActive),
		slog.Bool("audit", report.AuditEnabled),
	)

	svc, err := catalog.NewService(catalog.Deps{
		Courses:       a.store,
		Orders:        a.store,
		Notifications: a.store,
		Layouts:       a.store,
		Accounts:      a.engine,
		Identities:    a.store,
		Assets:        host,
		Mailer:        mailer,
		Cache:         catalog.NewCourseCache(a.redis, catalog.CourseCacheTTL),
		Logger:        log.With(slog.String("component", "catalog")),
	})
	if err != nil {
		return nil, err
	}

	var verifier httpapi.ProfileVerifier
	if cfg.Google.ClientID != "" {
		v, err := google.NewVerifier(cfg.Google.ClientID)
		if err != nil {
			return nil, err
		}
		verifier = v
	}

	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled {
		metricsHandler = promexport.HandlerFromSource(a.engine, collectors.NewGoCollector())
		if cfg.Telemetry.Enabled {
			a.exporter, err = otelexport.NewExporter(meters.Meter("learnhub"), a.engine)
			if err != nil {
				return nil, err
			}
		}
	}

	a.server, err = httpapi.New(httpapi.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		Origins:        cfg.HTTP.Origins,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Production:     cfg.Production(),
		BodyLimit:      cfg.HTTP.BodyLimit,
		RateLimit: httpapi.RateLimitConfig{
			RPS:       cfg.HTTP.RateLimit.RPS,
			Burst:     cfg.HTTP.RateLimit.Burst,
			MaxIPs:    cfg.HTTP.RateLimit.MaxIPs,
			IdleAfter: cfg.HTTP.RateLimit.IdleAfter,
		},
		Tracing: cfg.Telemetry.Enabled,
	}, httpapi.Deps{
		Engine:  a.engine,
		Catalog: svc,
		Google:  verifier,
		Metrics: metricsHandler,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.exporter != nil {
		errs = append(errs, a.exporter.Close())
	}
	if a.engine != nil {
		a.engine.Close()
	}
	if a.store != nil {
		errs = append(errs, a.store.close(ctx))
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
