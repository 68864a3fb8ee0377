package embeddings

import (
	"fmt"

	"github.com/ziadkadry99/overcoach/internal/config"
)

// modelDimensions lists the vector size of each known embedding model per
// provider. Unknown models use fallbackDimensions.
var modelDimensions = map[config.ProviderType]map[string]int{
	config.ProviderOllama: {
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"bge-small-en-v1.5":      384,
		"snowflake-arctic-embed": 1024,
	},
	config.ProviderOpenAI: {
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	},
	config.ProviderGoogle: {
		"gemini-embedding-001": 3072,
		"text-embedding-004":   768,
	},
}

var fallbackDimensions = map[config.ProviderType]int{
	config.ProviderOllama: 768,
	config.ProviderOpenAI: 1536,
	config.ProviderGoogle: 3072,
}

func dimensionsFor(provider config.ProviderType, model string) int {
	if d, ok := modelDimensions[provider][model]; ok {
		return d
	}
	return fallbackDimensions[provider]
}

// New creates the Embedder selected by cfg.EmbeddingProvider. Ollama is
// used when no embedding provider is configured.
func New(cfg *config.Config, getenv func(string) string) (Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = config.ProviderOllama
	}
	model := cfg.EmbeddingModelFor(provider)
	dims := dimensionsFor(provider, model)

	requireKey := func() (string, error) {
		envVar := config.APIKeyEnvVar(provider)
		key := getenv(envVar)
		if key == "" {
			return "", fmt.Errorf("%s environment variable is required for %s embeddings", envVar, provider)
		}
		return key, nil
	}

	switch provider {
	case config.ProviderOllama:
		return NewOllamaEmbedder(model, dims, getenv("OLLAMA_HOST")), nil

	case config.ProviderOpenAI:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewOpenAIEmbedder(key, model, dims, getenv("OPENAI_BASE_URL")), nil

	case config.ProviderGoogle:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewGoogleEmbedder(key, model, dims), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
