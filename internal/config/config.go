package config

import (
	"os"
	"strconv"

	"k9stats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds optional result-store connection settings.
// Persistence is disabled when URL is empty.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds analysis defaults
type AnalysisConfig struct {
	SparseThreshold int // minimum contingency cell count per predictor
	Parallelism     int // concurrent outcome fits in the batch evaluator
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			SparseThreshold: 10,
			Parallelism:     1,
		},
	}

	if v := os.Getenv("SPARSE_THRESHOLD"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid SPARSE_THRESHOLD")
		}
		cfg.Analysis.SparseThreshold = threshold
	}
	if v := os.Getenv("EVAL_PARALLELISM"); v != "" {
		parallelism, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid EVAL_PARALLELISM")
		}
		cfg.Analysis.Parallelism = parallelism
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analysis.SparseThreshold < 1 {
		return errors.ConfigInvalid("SPARSE_THRESHOLD must be a positive integer")
	}
	if c.Analysis.Parallelism < 1 {
		return errors.ConfigInvalid("EVAL_PARALLELISM must be a positive integer")
	}
	return nil
}
