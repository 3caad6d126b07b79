package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - database.go: Database and session store configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode and scheduler configuration
type AppConfig struct {
	// IsDev controls development mode behavior (seed data, relaxed cookies).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http"`

	// Enrollment window scheduler configuration
	Scheduler SchedulerConfig

	// StatsD metrics emission configuration
	Statsd StatsdConfig `envPrefix:"STATSD_"`
}

// StatsdConfig controls StatsD metric emission. Disabled by default so
// local development never needs a metrics endpoint.
type StatsdConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR"    envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"campus"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Scheduler.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	if strings.EqualFold(os.Getenv("NODE_ENV"), "development") {
		c.IsDev = true
	}
}
