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
	"github.com/robfig/cron/v3"
)

// Environment variable names.
const (
	EnvPrefix     = "COHORT_"
	EnvConfigFile = "COHORT_CONFIG"

	// envConfigKey is the key COHORT_CONFIG maps to; it is not a config field.
	envConfigKey = "config"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if COHORT_CONFIG is set
//  3. env (prefix COHORT_)
//
// Nested keys use a double underscore in env names, e.g.
// COHORT_KEYWORDS__COUNTRY=usa sets keywords.country. List values are
// comma separated.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// COHORT_MAX_RESULTS -> max_results, COHORT_KEYWORDS__CITIES -> keywords.cities
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		if key == envConfigKey {
			return "", nil
		}
		if strings.HasPrefix(key, "keywords.") && key != "keywords.country" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants Load relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxResults < 1:
		return fmt.Errorf("%w: max_results must be positive", ErrInvalidConfig)
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
		if c.PeopleTable == "" {
			return fmt.Errorf("%w: people_table must not be empty", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required for the redis store", ErrInvalidConfig)
		}
		if c.RedisKey == "" {
			return fmt.Errorf("%w: redis_key must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.ReloadSchedule != "" {
		if c.Store != StoreMemory || c.PanelPath == "" {
			return fmt.Errorf("%w: reload_schedule needs the memory store and a panel_path", ErrInvalidConfig)
		}
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("%w: reload_schedule: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
