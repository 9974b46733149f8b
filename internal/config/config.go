// Package config loads process configuration for the learnhub binary from a
// YAML file and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/assets"
	"github.com/MrEthical07/learnhub/mail"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env       string                  `yaml:"env" env:"NODE_ENV" env-default:"local"`
	LogLevel  string                  `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP                    `yaml:"http"`
	Redis     Redis                   `yaml:"redis"`
	Store     Store                   `yaml:"store"`
	Auth      Auth                    `yaml:"auth"`
	Cloud     assets.CloudinaryConfig `yaml:"cloudinary"`
	SMTP      mail.SMTPConfig         `yaml:"smtp"`
	Google    Google                  `yaml:"google"`
	Telemetry Telemetry               `yaml:"telemetry"`
	Audit     Audit                   `yaml:"audit"`
}

type HTTP struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8000"`
	Origins         []string      `yaml:"origins" env:"ORIGIN" env-separator:"," env-default:"http://localhost:3000"`
	TrustedProxies  []string      `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" env-separator:","`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	BodyLimit       string        `yaml:"body_limit" env:"HTTP_BODY_LIMIT" env-default:"50M"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
	MetricsEnabled  bool          `yaml:"metrics_enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// RateLimit configures the per-IP token bucket in front of the API.
type RateLimit struct {
	RPS       float64       `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"20"`
	Burst     int           `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"40"`
	MaxIPs    int           `yaml:"max_ips" env:"RATE_LIMIT_MAX_IPS" env-default:"10000"`
	IdleAfter time.Duration `yaml:"idle_after" env:"RATE_LIMIT_IDLE_AFTER" env-default:"10m"`
}

type Redis struct {
	URL string `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

// Store selects the durable backend: memory, mongo or postgres.
type Store struct {
	Driver        string `yaml:"driver" env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI      string `yaml:"mongo_uri" env:"DB_URL" env-default:"mongodb://localhost:27017"`
	MongoDatabase string `yaml:"mongo_database" env:"DB_NAME" env-default:"learnhub"`
	PostgresDSN   string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
}

type Auth struct {
	AccessSecret     string        `yaml:"access_secret" env:"ACCESS_TOKEN"`
	RefreshSecret    string        `yaml:"refresh_secret" env:"REFRESH_TOKEN"`
	ActivationSecret string        `yaml:"activation_secret" env:"ACTIVATION_SECRET"`
	AccessTTL        time.Duration `yaml:"access_ttl" env:"ACCESS_TOKEN_EXPIRE" env-default:"5m"`
	RefreshTTL       time.Duration `yaml:"refresh_ttl" env:"REFRESH_TOKEN_EXPIRE" env-default:"72h"`
	ActivationTTL    time.Duration `yaml:"activation_ttl" env:"ACTIVATION_TOKEN_EXPIRE" env-default:"15m"`
	Issuer           string        `yaml:"issuer" env:"TOKEN_ISSUER"`
	SnapshotTTL      time.Duration `yaml:"snapshot_ttl" env:"SESSION_SNAPSHOT_TTL" env-default:"0s"`
	BcryptCost       int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

type Google struct {
	ClientID string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
}

type Telemetry struct {
	Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"http://localhost:4318"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"learnhub"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_TRACE_SAMPLE_RATIO" env-default:"0.1"`
}

type Audit struct {
	Enabled bool `yaml:"enabled" env:"AUDIT_ENABLED" env-default:"true"`
}

// Production reports whether cookies must be Secure and lint warnings are
// fatal.
func (c *Config) Production() bool {
	return c.Env == EnvProd
}

// Load reads path (optional) and the environment. A .env file in the working
// directory is applied first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return nil, fmt.Errorf("unknown env %q", cfg.Env)
	}
	return &cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Engine maps process settings onto the auth engine configuration.
func (c *Config) Engine() learnhub.Config {
	cfg := learnhub.DefaultConfig()
	cfg.JWT.Access.Secret = c.Auth.AccessSecret
	cfg.JWT.Access.TTL = c.Auth.AccessTTL
	cfg.JWT.Refresh.Secret = c.Auth.RefreshSecret
	cfg.JWT.Refresh.TTL = c.Auth.RefreshTTL
	cfg.JWT.Activation.Secret = c.Auth.ActivationSecret
	cfg.JWT.Activation.TTL = c.Auth.ActivationTTL
	cfg.Security.ActivationWindow = c.Auth.ActivationTTL
	cfg.JWT.Issuer = c.Auth.Issuer
	cfg.Session.SnapshotTTL = c.Auth.SnapshotTTL
	cfg.Password.Cost = c.Auth.BcryptCost
	cfg.Security.ProductionMode = c.Production()
	cfg.Audit.Enabled = c.Audit.Enabled
	cfg.Metrics.Enabled = c.HTTP.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = c.HTTP.MetricsEnabled
	return cfg
}
