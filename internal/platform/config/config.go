// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/bookvault/api/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the BookVault API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// DevAuthEmail is a development-only identity override. When set and no
	// assertion token is present on a request, this email is used as the
	// verified identity. It keeps local environments functional without
	// running the upstream access proxy. Never set in production.
	DevAuthEmail string `env:"DEV_AUTH_EMAIL"`

	// External book-metadata API (Google Books)
	GoogleBooksAPIKey  string `env:"GOOGLE_BOOKS_API_KEY"  envDefault:"your-google-books-api-key"`
	GoogleBooksBaseURL string `env:"GOOGLE_BOOKS_BASE_URL"`

	// MetadataCacheTTL is how long successful ISBN lookups are cached.
	MetadataCacheTTL time.Duration `env:"METADATA_CACHE_TTL" envDefault:"24h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.GoogleBooksBaseURL == "" {
		cfg.GoogleBooksBaseURL = constants.GoogleBooksAPIBase
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
