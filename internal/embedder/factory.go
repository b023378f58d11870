package embedder

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables consulted by NewFromEnv.
const (
	EnvProvider     = "LOGSIFT_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config holds embedder construction settings.
type Config struct {
	Provider  string
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	CacheSize int
}

// New creates an embedder with explicit configuration.
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(EnvOpenAIAPIKey)
		}
		return NewOpenAIProvider(cfg.BaseURL, apiKey, cfg.Model, cfg.Timeout, cache)
	case ProviderLocal, "":
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// NewFromEnv creates an embedder from environment variables.
// Priority: explicit LOGSIFT_EMBEDDING_PROVIDER, then an available
// OPENAI_API_KEY, then the local hash provider.
func NewFromEnv() (Embedder, error) {
	provider := strings.ToLower(os.Getenv(EnvProvider))
	if provider != "" {
		return New(Config{Provider: provider})
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return New(Config{Provider: ProviderOpenAI})
	}
	return New(Config{Provider: ProviderLocal})
}
