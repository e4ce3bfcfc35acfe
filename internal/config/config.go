// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/blockpress/internal/scheduler"
	"github.com/olegiv/blockpress/internal/store"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"BLOCKPRESS_DB_PATH" envDefault:"./data/blockpress.db"`
	DBDriver   string `env:"BLOCKPRESS_DB_DRIVER" envDefault:"sqlite"` // "sqlite" (pure Go) or "sqlite3" (cgo)
	ServerHost string `env:"BLOCKPRESS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BLOCKPRESS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"BLOCKPRESS_ENV" envDefault:"development"`
	LogLevel   string `env:"BLOCKPRESS_LOG_LEVEL" envDefault:"info"`

	// RequestTimeout bounds admin requests, including synchronous republish runs.
	RequestTimeout time.Duration `env:"BLOCKPRESS_REQUEST_TIMEOUT" envDefault:"2m"`

	// Publishing
	PublishDir        string `env:"BLOCKPRESS_PUBLISH_DIR" envDefault:"./pub"`
	RepublishSchedule string `env:"BLOCKPRESS_REPUBLISH_SCHEDULE" envDefault:"@hourly"` // "off" disables

	// Seeding configuration
	DoSeed bool `env:"BLOCKPRESS_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if !store.IsSupportedDriver(c.DBDriver) {
		return fmt.Errorf("BLOCKPRESS_DB_DRIVER must be %q or %q, got %q",
			store.DriverModernc, store.DriverCgo, c.DBDriver)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("BLOCKPRESS_DB_PATH must not be empty")
	}
	if strings.TrimSpace(c.PublishDir) == "" {
		return fmt.Errorf("BLOCKPRESS_PUBLISH_DIR must not be empty")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("BLOCKPRESS_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("BLOCKPRESS_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if err := scheduler.ValidateSchedule(c.RepublishSchedule); err != nil {
		return fmt.Errorf("BLOCKPRESS_REPUBLISH_SCHEDULE: %w", err)
	}
	return nil
}
