package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RetrievalConfig holds the values the retrieval core consumes.
type RetrievalConfig struct {
	ChunkSize     int     `yaml:"chunk_size"`
	ChunkOverlap  int     `yaml:"chunk_overlap"`
	HybridWeight  float64 `yaml:"hybrid_weight"`
	IndexMode     string  `yaml:"index_mode"` // "hybrid" or "lexical"
	MaxCorpusSize int     `yaml:"max_corpus_size"`
	Workers       int     `yaml:"workers"`
	BatchSize     int     `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider    string `yaml:"provider"` // "openai" or "local"
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	CacheSize   int    `yaml:"cache_size"`
}

// Config is the root configuration structure.
type Config struct {
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
}

// Load reads a config from path. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Retrieval: RetrievalConfig{
			ChunkSize:    1000,
			ChunkOverlap: 100,
			HybridWeight: 0.6,
			IndexMode:    "hybrid",
			BatchSize:    50,
		},
		Embedder: EmbedderConfig{
			Provider:    "local",
			APIKeyEnv:   "OPENAI_API_KEY",
			TimeoutSecs: 30,
			CacheSize:   10000,
		},
	}
}

// APIKey resolves the embedder API key from the configured environment
// variable. Keys never live in the config file itself.
func (e *EmbedderConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv(e.APIKeyEnv)
}

// Timeout returns the provider timeout as a duration.
func (e *EmbedderConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

func (c *Config) validate() error {
	r := &c.Retrieval
	if r.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", r.ChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0,%d), got %d", r.ChunkSize, r.ChunkOverlap)
	}
	if r.HybridWeight < 0 || r.HybridWeight > 1 {
		return fmt.Errorf("hybrid_weight must be in [0,1], got %v", r.HybridWeight)
	}
	switch r.IndexMode {
	case "", "hybrid", "lexical":
	default:
		return fmt.Errorf("index_mode must be \"hybrid\" or \"lexical\", got %q", r.IndexMode)
	}
	if r.MaxCorpusSize < 0 {
		return fmt.Errorf("max_corpus_size cannot be negative, got %d", r.MaxCorpusSize)
	}
	return nil
}
