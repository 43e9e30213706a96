package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port            int      `env:"PORT" envDefault:"8080"`
	AppEnv          string   `env:"APP_ENV" envDefault:"development"`
	StoreBackend    string   `env:"STORE_BACKEND" envDefault:"redis"`
	RedisURL        string   `env:"REDIS_URL"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	AdminKey        string   `env:"ADMIN_KEY"`
	PinSalt         string   `env:"PIN_SALT"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimitPerMin int      `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Origins returns the allowlist with surrounding whitespace and empty
// entries removed.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND=redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case BackendMemory:
		if c.IsProduction() {
			return fmt.Errorf("STORE_BACKEND=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (expected redis, postgres or memory)", c.StoreBackend)
	}

	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must not be negative")
	}

	if c.AdminKey == "" {
		log.Warn().Msg("ADMIN_KEY is empty: admin operations are disabled")
	} else if c.IsProduction() {
		if err := validateSecret("ADMIN_KEY", c.AdminKey); err != nil {
			return err
		}
	}

	if c.PinSalt == "" {
		// Hashes written without a salt cannot be upgraded later without
		// resetting every partner PIN.
		log.Warn().Msg("PIN_SALT is empty: partner PINs are hashed without a salt")
	}

	if len(c.Origins()) == 0 {
		log.Warn().Msg("ALLOWED_ORIGINS is empty: all browser origins will be rejected")
	}

	if c.IsProduction() && strings.HasPrefix(c.RedisURL, "redis://") {
		log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load reads the environment. A .env file in the working directory, if
// present, supplies variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
