package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".overcoach.yml"

// defaultModels maps each completion provider to the model used when
// the config leaves model empty.
var defaultModels = map[ProviderType]string{
	ProviderOllama:     "mistral:7b",
	ProviderOpenAI:     "gpt-4-turbo-preview",
	ProviderAzure:      "gpt-4o",
	ProviderGitHub:     "gpt-4o",
	ProviderAnthropic:  "claude-sonnet-4-5-20250929",
	ProviderGoogle:     "gemini-2.0-flash",
	ProviderOpenRouter: "openai/gpt-4o-mini",
}

// defaultEmbeddingModels maps each embedding provider to its default model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOllama: "nomic-embed-text",
	ProviderOpenAI: "text-embedding-3-small",
	ProviderGoogle: "gemini-embedding-001",
}

// DefaultConfig returns a Config with sensible defaults. Provider is left
// empty so that it is auto-detected.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingProvider:        ProviderOllama,
		DataDir:                  "data",
		OverFastURL:              "https://overfast-api.tekrop.fr",
		Port:                     8000,
		CompletionTimeoutSeconds: 120,
		Temperature:              0.7,
		MaxTokens:                1024,
		RateLimitRPM:             0,
		TopKHeroes:               10,
		TopKMaps:                 3,
		LogLevel:                 "info",
		Azure: AzureConfig{
			APIVersion: "2024-02-15-preview",
		},
	}
}

// DefaultModel returns the default completion model for the provider.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}

// DefaultEmbeddingModel returns the default embedding model for the provider.
func DefaultEmbeddingModel(p ProviderType) string {
	return defaultEmbeddingModels[p]
}
