package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "remap.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start: a
terminal: z
mode: points
workers: "4"
trace: true
redis:
  addr: localhost:6379
serve:
  port: 9000
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "a", cfg.Start)
	assert.Equal(t, "z", cfg.Terminal)
	assert.Equal(t, domain.SeedPoints, cfg.Mode)
	assert.Equal(t, 4, cfg.Workers, "weakly typed input accepts quoted numbers")
	assert.True(t, cfg.Trace)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "remap:", cfg.Redis.Prefix, "unset nested keys keep their defaults")
	assert.Equal(t, 9000, cfg.Serve.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nlog_level: warn\n"), 0644))

	t.Setenv("REMAP_WORKERS", "8")
	t.Setenv("REMAP_LOG_LEVEL", "debug")
	t.Setenv("REMAP_SERVE_PORT", "7070")
	t.Setenv("REMAP_REDIS_PREFIX", "test:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.Serve.Port)
	assert.Equal(t, "test:", cfg.Redis.Prefix)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"Unknown Key":  "colour: blue\n",
		"Bad Mode":     "mode: triples\n",
		"Zero Workers": "workers: 0\n",
		"Not YAML":     "workers: [\n",
		"Wrong Type":   "serve: 12\n",
		"Same Stages":  "start: a\nterminal: a\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "remap.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
