package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Refresh store backends.
const (
	RefreshStoreMemory = "memory"
	RefreshStoreRedis  = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cookie   CookieConfig
	Notify   NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"resume-service"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"3018"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN,required,notEmpty"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines token and password parameters. Secrets and lifetimes have
// no defaults and must come from the environment.
type AuthConfig struct {
	AccessTokenSecret  string        `env:"AUTH_ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string        `env:"AUTH_REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenTTL     time.Duration `env:"AUTH_ACCESS_TOKEN_TTL,required"`
	RefreshTokenTTL    time.Duration `env:"AUTH_REFRESH_TOKEN_TTL,required"`
	BcryptCost         int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	RefreshStore       string        `env:"AUTH_REFRESH_STORE" envDefault:"memory"`
	RefreshKeyPrefix   string        `env:"AUTH_REFRESH_KEY_PREFIX" envDefault:"resume-service:refresh:"`
}

// CookieConfig controls attributes of the credential cookies.
type CookieConfig struct {
	Domain   string `env:"COOKIE_DOMAIN"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
}

// NotificationConfig holds notification sink settings. Empty values disable
// the corresponding sink.
type NotificationConfig struct {
	EmailFrom  string `env:"NOTIFY_EMAIL_FROM"`
	WebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
}

// Load reads configuration from .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	return c.Auth.Validate()
}

// Validate checks the token settings.
func (a AuthConfig) Validate() error {
	if a.AccessTokenSecret == "" || a.RefreshTokenSecret == "" {
		return errors.New("auth: access and refresh token secrets are required")
	}
	if a.AccessTokenSecret == a.RefreshTokenSecret {
		return errors.New("auth: access and refresh token secrets must differ")
	}
	if a.AccessTokenTTL < time.Second {
		return fmt.Errorf("auth: access token ttl must be at least 1s, got %s", a.AccessTokenTTL)
	}
	if a.RefreshTokenTTL < time.Second {
		return fmt.Errorf("auth: refresh token ttl must be at least 1s, got %s", a.RefreshTokenTTL)
	}
	switch a.RefreshStore {
	case RefreshStoreMemory, RefreshStoreRedis:
	default:
		return fmt.Errorf("auth: unknown refresh store %q", a.RefreshStore)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
