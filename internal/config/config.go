package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"histmatch/internal/divergence"
	"histmatch/internal/histogram"
	"histmatch/internal/logger"
	"histmatch/internal/matcher"

	"gopkg.in/yaml.v3"
)

// DatasetConfig locates the support and query directories.
type DatasetConfig struct {
	Root    string   `yaml:"root"`
	Support string   `yaml:"support"`
	Queries []string `yaml:"queries"`
	Decoder string   `yaml:"decoder"`

	// Resize is the square side images are scaled to after decoding. 0 keeps
	// the decoded size.
	Resize uint `yaml:"resize"`
}

// MatchConfig holds the defaults the prompt offers and the knobs it does not
// ask about.
type MatchConfig struct {
	Mode         string `yaml:"mode"`
	Interval     int    `yaml:"interval"`
	Grid         int    `yaml:"grid"`
	Aggregation  string `yaml:"aggregation"`
	StrictGrid   bool   `yaml:"strict_grid"`
	MaxColorBins int    `yaml:"max_color_bins"`
}

type Config struct {
	Dataset  DatasetConfig `yaml:"dataset"`
	Match    MatchConfig   `yaml:"match"`
	Workers  int           `yaml:"workers"`
	LogLevel string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Root:    "dataset",
			Support: "support_96",
			Queries: []string{"query_1", "query_2", "query_3"},
			Decoder: "std",
		},
		Match: MatchConfig{
			Mode:         "p",
			Interval:     1,
			Aggregation:  divergence.AggregateChannels.String(),
			MaxColorBins: matcher.DefaultMaxColorBins,
		},
		Workers:  1,
		LogLevel: "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path and then the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv overrides the log level from LOG_LEVEL when set.
func (c *Config) ApplyEnv() {
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		c.LogLevel = level
	}
}

func (c Config) Validate() error {
	if c.Dataset.Support == "" {
		return invalid("dataset.support", c.Dataset.Support, "must not be empty")
	}
	if len(c.Dataset.Queries) == 0 {
		return invalid("dataset.queries", c.Dataset.Queries, "at least one query set is required")
	}
	for i, q := range c.Dataset.Queries {
		if q == "" {
			return invalid(fmt.Sprintf("dataset.queries[%d]", i), q, "must not be empty")
		}
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level", c.LogLevel, err.Error())
	}

	if _, err := c.MatchConfig(); err != nil {
		return err
	}

	return nil
}

func invalid(field string, value interface{}, reason string) error {
	return &histogram.ValidationError{
		Context: "config",
		Field:   field,
		Value:   value,
		Reason:  reason,
	}
}

func (c Config) SupportDir() string {
	return filepath.Join(c.Dataset.Root, c.Dataset.Support)
}

// QueryDir returns the directory of query set n, counted from 1.
func (c Config) QueryDir(n int) (string, error) {
	if n < 1 || n > len(c.Dataset.Queries) {
		return "", invalid("query set", n, fmt.Sprintf("must be between 1 and %d", len(c.Dataset.Queries)))
	}
	return filepath.Join(c.Dataset.Root, c.Dataset.Queries[n-1]), nil
}

// MatchConfig converts the match section into a validated matcher.Config.
func (c Config) MatchConfig() (matcher.Config, error) {
	mode, err := matcher.ParseMode(c.Match.Mode)
	if err != nil {
		return matcher.Config{}, err
	}

	agg, err := divergence.ParseAggregation(c.Match.Aggregation)
	if err != nil {
		return matcher.Config{}, err
	}

	mc := matcher.Config{
		Mode:         mode,
		Interval:     c.Match.Interval,
		GridCount:    c.Match.Grid,
		Aggregation:  agg,
		StrictGrid:   c.Match.StrictGrid,
		MaxColorBins: c.Match.MaxColorBins,
		Workers:      c.Workers,
	}

	if err := mc.Validate(); err != nil {
		return matcher.Config{}, err
	}

	return mc, nil
}

// IsValidationError reports whether err came from configuration checks.
func IsValidationError(err error) bool {
	var ve *histogram.ValidationError
	return errors.As(err, &ve)
}
