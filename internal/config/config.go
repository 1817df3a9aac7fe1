// Package config loads and validates the quadsync configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/quadsync/internal/errors"
)

// Config represents the complete quadsync configuration.
type Config struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Search     SearchConfig     `yaml:"search"`
	Vector     VectorConfig     `yaml:"vector"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedding backend. Only "static" is built in;
	// other providers are supplied programmatically.
	Provider string `yaml:"provider"`

	// Dimensions is the embedding vector dimension.
	Dimensions int `yaml:"dimensions"`

	// CacheSize is the number of embeddings kept in the LRU cache.
	// Zero disables caching.
	CacheSize int `yaml:"cache_size"`
}

// SearchConfig configures default query parameters.
type SearchConfig struct {
	// TextWeight is the default hybrid weight for the text score.
	TextWeight float64 `yaml:"text_weight"`

	// VectorWeight is the default hybrid weight for the similarity score.
	VectorWeight float64 `yaml:"vector_weight"`

	// MinSimilarity is the default similarity floor, in [0,1].
	MinSimilarity float64 `yaml:"min_similarity"`

	// MaxResults is the default result limit.
	MaxResults int `yaml:"max_results"`
}

// VectorConfig tunes the HNSW graphs.
type VectorConfig struct {
	// M is the max connections per layer (0 uses the library default).
	M int `yaml:"m"`

	// EfSearch is the query-time search width (0 uses the library default).
	EfSearch int `yaml:"ef_search"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			Provider:   "static",
			Dimensions: 384,
			CacheSize:  1000,
		},
		Search: SearchConfig{
			TextWeight:    0.5,
			VectorWeight:  0.5,
			MinSimilarity: 0.0,
			MaxResults:    10,
		},
		Vector: VectorConfig{
			M:        16,
			EfSearch: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML configuration file, filling unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("parse %s: %v", path, err), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Embeddings.Dimensions <= 0 {
		return errors.ConfigError(
			fmt.Sprintf("embeddings.dimensions must be positive, got %d", c.Embeddings.Dimensions), nil)
	}
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return errors.ConfigError(
			fmt.Sprintf("search.min_similarity must be in [0,1], got %g", c.Search.MinSimilarity), nil)
	}
	if c.Search.MaxResults <= 0 {
		return errors.ConfigError(
			fmt.Sprintf("search.max_results must be positive, got %d", c.Search.MaxResults), nil)
	}
	if c.Search.TextWeight < 0 || c.Search.VectorWeight < 0 {
		return errors.ConfigError("search weights must be non-negative", nil)
	}
	return nil
}
