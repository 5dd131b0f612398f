package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "SPEED_CHECKER_"
	envConfigFile = envPrefix + "CONFIG"
)

// bareEnvKeys maps the unprefixed variable names used by existing deployments
// (docker-compose, the SvelteKit frontend) to config keys.
var bareEnvKeys = map[string]string{
	"API_BASE_URL":        "api_base_url",
	"PUBLIC_API_BASE_URL": "public_api_base_url",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPEED_CHECKER_CONFIG is set
//  3. env (prefix SPEED_CHECKER_)
//  4. API_BASE_URL / PUBLIC_API_BASE_URL when set and non-empty
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SPEED_CHECKER_API_BASE_URL -> api_base_url (flat keys, underscores kept)
	prefixed := env.Provider(envPrefix, ".", func(s string) string {
		if s == envConfigFile {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	bare := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		name, ok := bareEnvKeys[key]
		if !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return name, value
	})
	if err := k.Load(bare, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the process cannot start with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UpstreamTimeoutMS < 0:
		return fmt.Errorf("%w: upstream_timeout_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
