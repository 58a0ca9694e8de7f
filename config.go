package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Token storage backends selectable with --token-storage.
const (
	storageFile   = "file"
	storageSQLite = "sqlite"
	storageMemory = "memory"
)

// Output formats selectable with --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// Config is the process configuration. Environment values (and .env) are the
// defaults of the matching persistent flags, so a flag always wins.
type Config struct {
	APIBase        string        `env:"API_BASE"        envDefault:"http://localhost:5000/api/v1"`
	Profile        string        `env:"PROFILE"         envDefault:"default"`
	TokenStorage   string        `env:"TOKEN_STORAGE"   envDefault:"file"`
	TokenFile      string        `env:"TOKEN_FILE"      envDefault:".shopadmin-tokens.json"`
	TokenDB        string        `env:"TOKEN_DB"        envDefault:".shopadmin.db"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT" envDefault:"10s"`
	RefreshPath    string        `env:"REFRESH_PATH"    envDefault:"/auth/refresh"`
	Debug          bool          `env:"DEBUG"`
	LogFile        string        `env:"LOG_FILE"`
	Output         string        `env:"OUTPUT"          envDefault:"table"`
	Quiet          bool          `env:"QUIET"`
}

// loadConfig reads .env (if present) and the environment.
func loadConfig() (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// validate checks the values once flags have been applied.
func (c *Config) validate() error {
	if err := validateServerURL(c.APIBase); err != nil {
		return fmt.Errorf("invalid API_BASE: %w", err)
	}
	switch c.TokenStorage {
	case storageFile, storageSQLite, storageMemory:
	default:
		return fmt.Errorf("token storage must be file, sqlite or memory, got: %s", c.TokenStorage)
	}
	switch c.Output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("output must be table or json, got: %s", c.Output)
	}
	if c.Profile == "" {
		return errors.New("profile cannot be empty")
	}
	if c.RequestTimeout <= 0 || c.RefreshTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// validateServerURL validates that the server URL is properly formatted
func validateServerURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("server URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("URL must include a host")
	}

	return nil
}

// warnPlainHTTP prints a warning when tokens would travel unencrypted.
func warnPlainHTTP(w io.Writer, rawURL string) {
	if !strings.HasPrefix(strings.ToLower(rawURL), "http://") {
		return
	}
	fmt.Fprintln(
		w,
		"⚠️  WARNING: Using HTTP instead of HTTPS. Tokens will be transmitted in plaintext!",
	)
	fmt.Fprintln(
		w,
		"⚠️  This is only safe for local development. Use HTTPS in production.",
	)
	fmt.Fprintln(w)
}
