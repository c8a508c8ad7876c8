package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const defaultPort = 8123

// rawConfig mirrors the environment one to one. Validation happens in ConfigFromEnv.
type rawConfig struct {
	Environment            string `env:"GAMELENS_ENVIRONMENT"`
	Port                   string `env:"PORT"`
	CloudSQLUnixSocketPath string `env:"CLOUDSQL_UNIX_SOCKET"`
	DBUsername             string `env:"DB_USERNAME"`
	DBPassword             string `env:"DB_PASSWORD"`
	SentryDSN              string `env:"SENTRY_DSN"`
	GCPProjectID           string `env:"GCP_PROJECT_ID"`

	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LibraryCacheTTL time.Duration `env:"LIBRARY_CACHE_TTL" envDefault:"1m"`
}

type Config struct {
	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string
	sentryDSN              string
	gcpProjectID           string
	port                   int
	env                    environment
	logLevel               slog.Level
	libraryCacheTTL        time.Duration
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

// GCPProjectID is empty when not running on Google Cloud
func (c *Config) GCPProjectID() string {
	return c.gcpProjectID
}

func (c *Config) LogLevel() slog.Level {
	return c.logLevel
}

// LibraryCacheTTL is how long a computed library is served for repeated identical requests
func (c *Config) LibraryCacheTTL() time.Duration {
	return c.libraryCacheTTL
}

func (c *Config) Port() int {
	return c.port
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %d, gcpProjectID: %s, logLevel: %s, libraryCacheTTL: %s, ...}",
		string(c.env), c.port, c.gcpProjectID, c.logLevel, c.libraryCacheTTL,
	)
}

func parseEnvironment(raw string) (environment, error) {
	switch raw {
	case "":
		return "", fmt.Errorf("%w: GAMELENS_ENVIRONMENT", ErrMissingRequiredValue)
	case string(production):
		return production, nil
	case string(staging):
		return staging, nil
	case string(development):
		return development, nil
	}
	return "", fmt.Errorf("%w: GAMELENS_ENVIRONMENT (%s)", ErrInvalidValue, raw)
}

func parsePort(raw string) (int, error) {
	if raw == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: PORT (%s)", ErrInvalidValue, raw)
	}
	return port, nil
}

func ConfigFromEnv() (Config, error) {
	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	parsedEnv, err := parseEnvironment(raw.Environment)
	if err != nil {
		return Config{}, err
	}

	port, err := parsePort(raw.Port)
	if err != nil {
		return Config{}, err
	}

	if raw.LibraryCacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: LIBRARY_CACHE_TTL (%s) must be positive", ErrInvalidValue, raw.LibraryCacheTTL)
	}

	if parsedEnv == production || parsedEnv == staging {
		required := []struct {
			key   string
			value string
		}{
			{"CLOUDSQL_UNIX_SOCKET", raw.CloudSQLUnixSocketPath},
			{"DB_USERNAME", raw.DBUsername},
			{"DB_PASSWORD", raw.DBPassword},
			{"SENTRY_DSN", raw.SentryDSN},
		}
		for _, r := range required {
			if r.value == "" {
				return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, r.key)
			}
		}
	}

	return Config{
		cloudSQLUnixSocketPath: raw.CloudSQLUnixSocketPath,
		dBPassword:             raw.DBPassword,
		dBUsername:             raw.DBUsername,
		sentryDSN:              raw.SentryDSN,
		gcpProjectID:           raw.GCPProjectID,
		port:                   port,
		env:                    parsedEnv,
		logLevel:               raw.LogLevel,
		libraryCacheTTL:        raw.LibraryCacheTTL,
	}, nil
}
