package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dtroode/gophcheck-server/internal/model"
)

// Rate limit counter backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel       int            `env:"LOG_LEVEL" envDefault:"0"`
	HTTP           HTTP           `envPrefix:"HTTP_"`
	Database       Database       `envPrefix:"DATABASE_"`
	Redis          Redis          `envPrefix:"REDIS_"`
	RateLimit      RateLimit      `envPrefix:"RATE_LIMIT_"`
	LoginRateLimit LoginRateLimit `envPrefix:"LOGIN_RATE_LIMIT_"`
	Session        Session        `envPrefix:"SESSION_"`
	Staff          Staff          `envPrefix:"STAFF_"`
	Code           Code           `envPrefix:"CODE_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`

	// TrustForwardedHeaders takes the client IP from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustForwardedHeaders bool `env:"TRUST_FORWARDED_HEADERS" envDefault:"false"`
}

// Database contains database connection parameters.
type Database struct {
	DSN string `env:"DSN"`
}

// Redis contains Redis connection parameters for the redis counter backend.
type Redis struct {
	URL string `env:"URL"`
}

// RateLimit contains code redemption throttling parameters.
type RateLimit struct {
	Backend       string `env:"BACKEND" envDefault:"postgres"`
	WindowSeconds int    `env:"WINDOW_SECONDS" envDefault:"60"`
	PerIP         int    `env:"PER_IP" envDefault:"30"`
	PerSession    int    `env:"PER_SESSION" envDefault:"60"`
	LockSeconds   int    `env:"LOCK_SECONDS" envDefault:"120"`
}

// LoginRateLimit contains staff login throttling parameters.
type LoginRateLimit struct {
	Enabled     bool `env:"ENABLED" envDefault:"true"`
	PerIP       int  `env:"PER_IP" envDefault:"10"`
	LockSeconds int  `env:"LOCK_SECONDS" envDefault:"120"`
}

// Session contains session token and cookie parameters.
type Session struct {
	HMACSecret   string `env:"HMAC_SECRET"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

// Staff contains the shared staff credential.
type Staff struct {
	PIN      string `env:"PIN"`
	DemoMode bool   `env:"DEMO_MODE" envDefault:"false"`
}

// Code contains access code hashing parameters.
type Code struct {
	Pepper          string `env:"PEPPER"`
	AllowUnpeppered bool   `env:"ALLOW_UNPEPPERED" envDefault:"false"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate reports secrets and limits that are missing or unusable.
// Insecure fallbacks are only accepted behind their explicit flags.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Database.DSN) == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.Session.HMACSecret == "" {
		missing = append(missing, "SESSION_HMAC_SECRET")
	}
	if strings.TrimSpace(c.Staff.PIN) == "" && !c.Staff.DemoMode {
		missing = append(missing, "STAFF_PIN")
	}
	if c.Code.Pepper == "" && !c.Code.AllowUnpeppered {
		missing = append(missing, "CODE_PEPPER")
	}
	if c.RateLimit.Backend == BackendRedis && strings.TrimSpace(c.Redis.URL) == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", model.ErrConfigurationMissing, strings.Join(missing, ", "))
	}

	switch c.RateLimit.Backend {
	case BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown rate limit backend %q", c.RateLimit.Backend)
	}

	if c.RateLimit.WindowSeconds <= 0 || c.RateLimit.LockSeconds <= 0 ||
		c.RateLimit.PerIP <= 0 || c.RateLimit.PerSession <= 0 {
		return fmt.Errorf("rate limit window, lock and limits must be positive")
	}
	if c.LoginRateLimit.Enabled && (c.LoginRateLimit.PerIP <= 0 || c.LoginRateLimit.LockSeconds <= 0) {
		return fmt.Errorf("login rate limit and lock must be positive")
	}

	return nil
}

// Window returns the rate limit window size.
func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Lock returns the lockout duration applied once a limit is exceeded.
func (r RateLimit) Lock() time.Duration {
	return time.Duration(r.LockSeconds) * time.Second
}

// Lock returns the login lockout duration.
func (r LoginRateLimit) Lock() time.Duration {
	return time.Duration(r.LockSeconds) * time.Second
}
