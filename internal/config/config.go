package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (OVERCOACH_*). A double underscore in a
// variable name selects a nested key: OVERCOACH_AZURE__ENDPOINT -> azure.endpoint.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("OVERCOACH_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "OVERCOACH_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderOllama:     true,
	ProviderOpenAI:     true,
	ProviderAzure:      true,
	ProviderGitHub:     true,
	ProviderAnthropic:  true,
	ProviderGoogle:     true,
	ProviderOpenRouter: true,
}

var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOllama: true,
	ProviderOpenAI: true,
	ProviderGoogle: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider != "" && !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of ollama, openai, azure, github, anthropic, google, openrouter", c.Provider)
	}
	if c.EmbeddingProvider != "" && !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of ollama, openai, google", c.EmbeddingProvider)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.CompletionTimeoutSeconds < 0 {
		return fmt.Errorf("completion_timeout_seconds must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}
	if c.TopKHeroes <= 0 || c.TopKMaps <= 0 {
		return fmt.Errorf("top_k_heroes and top_k_maps must be positive")
	}
	return nil
}

// CompletionTimeout returns the deadline applied to a single completion call.
// Zero disables the deadline.
func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutSeconds) * time.Second
}

// ModelFor returns the configured model, or the provider default when unset.
func (c *Config) ModelFor(p ProviderType) string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(p)
}

// EmbeddingModelFor returns the configured embedding model, or the default
// for the given embedding provider.
func (c *Config) EmbeddingModelFor(p ProviderType) string {
	if c.EmbeddingModel != "" {
		return c.EmbeddingModel
	}
	return DefaultEmbeddingModel(p)
}

// Paths below live under DataDir.

func (c *Config) HeroesDir() string    { return filepath.Join(c.DataDir, "heroes") }
func (c *Config) MapsDir() string      { return filepath.Join(c.DataDir, "maps") }
func (c *Config) VectorDBDir() string  { return filepath.Join(c.DataDir, "vectordb") }
func (c *Config) DatabasePath() string { return filepath.Join(c.DataDir, "overcoach.db") }

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAzure:
		return "AZURE_OPENAI_API_KEY"
	case ProviderGitHub:
		return "GITHUB_TOKEN"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
