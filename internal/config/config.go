// Package config loads fintrack settings from defaults, an optional TOML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DatabaseURLVars lists the environment variables that may carry the
// PostgreSQL connection string. The first non-empty one wins.
var DatabaseURLVars = []string{
	"DATABASE_URL",
	"POSTGRES_URL",
	"POSTGRES_PRISMA_URL",
	"POSTGRES_URL_NON_POOLING",
	"NEON_DATABASE_URL",
	"NEON_POSTGRES_URL",
	"NEON_DATABASE_URL_UNPOOLED",
}

const MinSecretLength = 32

// Config holds all fintrack configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Session  SessionConfig  `toml:"session"`
	Jobs     JobsConfig     `toml:"jobs"`
}

type ServerConfig struct {
	Addr              string        `toml:"addr"`
	AllowedOrigins    []string      `toml:"allowed_origins"`
	AuthRatePerSecond int           `toml:"auth_rate_per_second"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout"`
	Debug             bool          `toml:"debug"`
	TrustedProxies    []string      `toml:"trusted_proxies"`
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

type SessionConfig struct {
	Secret       string        `toml:"secret"`
	TTL          time.Duration `toml:"ttl"`
	CookieSecure bool          `toml:"cookie_secure"`
	CookieDomain string        `toml:"cookie_domain"`
}

type JobsConfig struct {
	Enabled          bool   `toml:"enabled"`
	SessionPurgeSpec string `toml:"session_purge_spec"`
	RecurringSpec    string `toml:"recurring_spec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			AllowedOrigins:    []string{"http://localhost:3000"},
			AuthRatePerSecond: 5,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Session: SessionConfig{
			TTL:          7 * 24 * time.Hour,
			CookieSecure: true,
		},
		Jobs: JobsConfig{
			Enabled:          true,
			SessionPurgeSpec: "@hourly",
			RecurringSpec:    "@daily",
		},
	}
}

// Load builds the configuration. path names an optional TOML file; when empty
// the FINTRACK_CONFIG variable is consulted. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("FINTRACK_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DatabaseURL returns the first connection string set in env.
func DatabaseURL(getenv func(string) string) string {
	for _, name := range DatabaseURLVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if url := DatabaseURL(getenv); url != "" {
		cfg.Database.URL = url
	}
	if port := getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := getenv("FINTRACK_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	if proxies := getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Server.TrustedProxies = splitList(proxies)
	}
	if secret := getenv("SESSION_SECRET"); secret != "" {
		cfg.Session.Secret = secret
	}
	if domain := getenv("COOKIE_DOMAIN"); domain != "" {
		cfg.Session.CookieDomain = domain
	}

	var err error
	if cfg.Session.TTL, err = envDuration(getenv, "SESSION_TTL", cfg.Session.TTL); err != nil {
		return err
	}
	if cfg.Server.ShutdownTimeout, err = envDuration(getenv, "SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.Session.CookieSecure, err = envBool(getenv, "COOKIE_SECURE", cfg.Session.CookieSecure); err != nil {
		return err
	}
	if cfg.Server.Debug, err = envBool(getenv, "FINTRACK_DEBUG", cfg.Server.Debug); err != nil {
		return err
	}
	if cfg.Jobs.Enabled, err = envBool(getenv, "JOBS_ENABLED", cfg.Jobs.Enabled); err != nil {
		return err
	}
	if v := getenv("LOGIN_RATE_PER_SECOND"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGIN_RATE_PER_SECOND: %w", err)
		}
		cfg.Server.AuthRatePerSecond = n
	}
	if v := getenv("DATABASE_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("DATABASE_MAX_CONNS: %w", err)
		}
		cfg.Database.MaxConns = int32(n)
	}
	return nil
}

func envDuration(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func envBool(getenv func(string) string, name string, def bool) (bool, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings needed to serve requests.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is not set, use one of %s", strings.Join(DatabaseURLVars, ", "))
	}
	return c.ValidateServer()
}

// ValidateServer checks the HTTP and session settings.
func (c Config) ValidateServer() error {
	if len(c.Session.Secret) < MinSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.Session.TTL < time.Minute {
		return errors.New("session ttl must be at least one minute")
	}
	if c.Server.AuthRatePerSecond <= 0 {
		return errors.New("auth rate per second must be positive")
	}
	return nil
}
