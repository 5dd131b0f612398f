// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New(); Load layers a YAML file and the environment on top.
// - Missing API origins are left empty here; origin.Resolver applies fallbacks.
// - External errors must be wrapped via this package's sentinels.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// APIBaseURL is the private, server-side origin of the speed-checker API.
	APIBaseURL string `koanf:"api_base_url"`

	// PublicAPIBaseURL is the origin handed to browsers for client-side calls.
	PublicAPIBaseURL string `koanf:"public_api_base_url"`

	// UpstreamTimeoutMS bounds each API round trip; 0 leaves it to the request context.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":3000",
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}
