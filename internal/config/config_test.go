package config

import (
	"os"
	"path/filepath"
	"testing"

	"histmatch/internal/divergence"
	"histmatch/internal/histogram"
	"histmatch/internal/matcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	mc, err := cfg.MatchConfig()
	require.NoError(t, err)
	assert.Equal(t, matcher.DefaultConfig(), mc)

	assert.Equal(t, filepath.Join("dataset", "support_96"), cfg.SupportDir())
	dir, err := cfg.QueryDir(2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("dataset", "query_2"), dir)
}

func TestQueryDirRange(t *testing.T) {
	cfg := Default()
	for _, n := range []int{0, 4, -1} {
		_, err := cfg.QueryDir(n)
		assert.ErrorIs(t, err, histogram.ErrInvalidConfig, "query set %d", n)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "histmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset:
  root: /data/experiment
  queries: [probe_a, probe_b]
  resize: 64
match:
  mode: c
  interval: 8
  grid: 4
  aggregation: legacy
workers: 4
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/experiment", cfg.Dataset.Root)
	assert.Equal(t, "support_96", cfg.Dataset.Support)
	assert.Equal(t, []string{"probe_a", "probe_b"}, cfg.Dataset.Queries)
	assert.Equal(t, uint(64), cfg.Dataset.Resize)
	assert.Equal(t, "debug", cfg.LogLevel)

	mc, err := cfg.MatchConfig()
	require.NoError(t, err)
	assert.Equal(t, matcher.JointColor, mc.Mode)
	assert.Equal(t, 8, mc.Interval)
	assert.Equal(t, 4, mc.GridCount)
	assert.Equal(t, divergence.AggregateLegacy, mc.Aggregation)
	assert.Equal(t, 4, mc.Workers)
	assert.Equal(t, matcher.DefaultMaxColorBins, mc.MaxColorBins)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match: [unterminated"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty support", func(c *Config) { c.Dataset.Support = "" }},
		{"no queries", func(c *Config) { c.Dataset.Queries = nil }},
		{"blank query", func(c *Config) { c.Dataset.Queries = []string{"q1", ""} }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"mode", func(c *Config) { c.Match.Mode = "x" }},
		{"interval", func(c *Config) { c.Match.Interval = 3 }},
		{"grid", func(c *Config) { c.Match.Grid = -2 }},
		{"aggregation", func(c *Config) { c.Match.Aggregation = "median" }},
		{"color bins", func(c *Config) { c.Match.Mode = "c"; c.Match.Interval = 1 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.ErrorIs(t, err, histogram.ErrInvalidConfig)
		})
	}
}
