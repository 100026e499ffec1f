// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the review service.
// Environment variables are parsed from the CODECRAFT_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage selection: postgres or sqlite. "auto" derives from the
	// configured DSN/path, preferring postgres when a DSN is present.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"codecraft.db"`

	// GitHub metadata lookups used by the CLI analyze flow.
	GithubAPIBaseURL string `envconfig:"GITHUB_API_BASE_URL" default:"https://api.github.com"`
	GithubToken      string `envconfig:"GITHUB_TOKEN" default:""`

	// Health checking
	HealthIntervalSeconds int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"10"`
	HealthTimeoutSeconds  int `envconfig:"HEALTH_TIMEOUT_SECONDS" default:"2"`

	// DevMode accepts unsigned bearer tokens of the form "dev:<identity>".
	DevMode bool `envconfig:"DEV_MODE" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults derives DBDriver when set to "auto" or empty and
// validates the resulting selection.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_DRIVER=sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing CODECRAFT_-prefixed environment
// variables, e.g. CODECRAFT_HTTP_PORT, CODECRAFT_POSTGRES_DSN.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CODECRAFT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("dev_mode", cfg.DevMode).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("sqlite_path", cfg.SQLitePath).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for tests: sqlite in-memory,
// dev-mode auth, short health intervals.
func NewForTesting() *Config {
	return &Config{
		Environment:           EnvTesting,
		HTTPPort:              8080,
		DBDriver:              "sqlite",
		SQLitePath:            ":memory:",
		GithubAPIBaseURL:      "https://api.github.com",
		HealthIntervalSeconds: 1,
		HealthTimeoutSeconds:  1,
		DevMode:               true,
		LogLevel:              "debug",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
