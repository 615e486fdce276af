// Package config loads remap.yaml and applies REMAP_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks when no --config flag is given.
const DefaultPath = "remap.yaml"

// Config holds the tunables shared by every command.
// Empty Start and Terminal defer to the source, then to "seed" and "location".
type Config struct {
	Start    string          `mapstructure:"start"`
	Terminal string          `mapstructure:"terminal"`
	Mode     domain.SeedMode `mapstructure:"mode"`
	Workers  int             `mapstructure:"workers"`
	LogLevel string          `mapstructure:"log_level"`
	Trace    bool            `mapstructure:"trace"`

	Redis RedisConfig `mapstructure:"redis"`
	Serve ServeConfig `mapstructure:"serve"`
}

// RedisConfig selects a Redis stage source. An empty Addr disables it.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when no file or variable overrides it.
func Default() Config {
	return Config{
		Mode:     domain.SeedPairs,
		Workers:  1,
		LogLevel: "info",
		Redis:    RedisConfig{Prefix: "remap:"},
		Serve:    ServeConfig{Port: 8080},
	}
}

// Load reads path on top of the defaults and then applies the environment.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if err := decode(fromEnv(os.Environ()), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.Mode != domain.SeedPoints && c.Mode != domain.SeedPairs {
		return fmt.Errorf("mode must be %q or %q, got %q", domain.SeedPoints, domain.SeedPairs, c.Mode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Start != "" && c.Start == c.Terminal {
		return fmt.Errorf("start and terminal stages must differ, both are %q", c.Start)
	}
	return nil
}

func decode(input map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// fromEnv turns REMAP_SERVE_PORT=9090 into {"serve": {"port": "9090"}}.
// Nesting follows the first underscore only, so REMAP_LOG_LEVEL stays a top-level key.
func fromEnv(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "REMAP_") {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, "REMAP_"))

		section, field, nested := strings.Cut(key, "_")
		if nested && (section == "redis" || section == "serve") {
			sub, _ := out[section].(map[string]any)
			if sub == nil {
				sub = make(map[string]any)
				out[section] = sub
			}
			sub[field] = value
			continue
		}
		out[key] = value
	}
	return out
}
