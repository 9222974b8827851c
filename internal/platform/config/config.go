// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles client-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A '.env' file in the working directory, when present, is loaded first
so operators can keep per-environment settings next to the binary.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/eduadmin/internal/platform/constants"
	"github.com/taibuivan/eduadmin/pkg/slug"
)

// # Session Backends

// Store names accepted by SESSION_STORE.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the admin client.
type Config struct {

	// Backend API
	APIURL         string        `env:"ADMIN_API_URL"       envDefault:"http://localhost:3000/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"     envDefault:"0s"`
	RateLimit      float64       `env:"REQUEST_RATE_LIMIT"  envDefault:"0"`
	RateBurst      int           `env:"REQUEST_RATE_BURST"  envDefault:"1"`

	// AutoLogout clears the persisted session when the backend answers 401.
	AutoLogout bool `env:"AUTO_LOGOUT" envDefault:"true"`

	// Runtime
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// Session persistence
	SessionStore   string `env:"SESSION_STORE"   envDefault:"file"`
	SessionProfile string `env:"SESSION_PROFILE" envDefault:"default"`
	SessionPath    string `env:"SESSION_PATH"`
	SessionSecret  string `env:"SESSION_SECRET"`

	// SessionTTL expires Redis sessions; zero keeps them until logout.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"0s"`

	// Locale selects number and currency formatting in CLI output (BCP 47).
	Locale string `env:"LOCALE" envDefault:"en"`

	// Shared session backends
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	// MockAddr is the listen address of the local fake backend (cmd/mockapi).
	MockAddr string `env:"MOCK_API_ADDR" envDefault:":3000"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects combinations env tags cannot express.
func (c *Config) validate() error {
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIURL
	}

	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: ADMIN_API_URL %q is not an absolute URL", c.APIURL)
	}

	// Bearer tokens must not cross the network in clear text outside development.
	if c.IsProduction() && parsed.Scheme != "https" {
		return fmt.Errorf("config: ADMIN_API_URL must use https when ENVIRONMENT=production, got %q", c.APIURL)
	}

	// Profiles become file path segments and Redis keys.
	c.SessionProfile = slug.From(c.SessionProfile)
	if c.SessionProfile == "" {
		c.SessionProfile = constants.DefaultSessionProfile
	}

	switch c.SessionStore {
	case "":
		c.SessionStore = StoreFile
	case StoreFile, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required when SESSION_STORE=redis")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionTTL < 0 {
		return errors.New("config: SESSION_TTL must not be negative")
	}

	if c.RateLimit < 0 {
		return errors.New("config: REQUEST_RATE_LIMIT must not be negative")
	}

	return nil
}

// IsDevelopment reports whether the client targets a development backend.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client targets the production backend.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
