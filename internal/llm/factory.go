package llm

import (
	"fmt"

	"github.com/ziadkadry99/overcoach/internal/config"
)

// NewProvider builds the Provider implementation for the given backend.
// Credentials are read through getenv so callers decide where they come from.
// A positive RateLimitRPM wraps the provider in a RateLimitedProvider.
func NewProvider(cfg *config.Config, provider config.ProviderType, getenv func(string) string) (Provider, error) {
	p, err := newProvider(cfg, provider, getenv)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		return NewRateLimitedProvider(p, cfg.RateLimitRPM), nil
	}
	return p, nil
}

func newProvider(cfg *config.Config, provider config.ProviderType, getenv func(string) string) (Provider, error) {
	model := cfg.ModelFor(provider)

	requireKey := func() (string, error) {
		envVar := config.APIKeyEnvVar(provider)
		key := getenv(envVar)
		if key == "" {
			return "", fmt.Errorf("%s environment variable is required for provider %s", envVar, provider)
		}
		return key, nil
	}

	switch provider {
	case config.ProviderOllama:
		host := getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	case config.ProviderOpenAI:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(key, model), nil

	case config.ProviderGitHub:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewGitHubProvider(key, model), nil

	case config.ProviderOpenRouter:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewOpenRouterProvider(key, model), nil

	case config.ProviderAzure:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		endpoint := firstNonEmpty(cfg.Azure.Endpoint, getenv("AZURE_OPENAI_ENDPOINT"))
		deployment := firstNonEmpty(cfg.Azure.Deployment, getenv("AZURE_OPENAI_DEPLOYMENT"))
		if endpoint == "" || deployment == "" {
			return nil, fmt.Errorf("azure provider requires an endpoint and a deployment (azure.endpoint / AZURE_OPENAI_ENDPOINT, azure.deployment / AZURE_OPENAI_DEPLOYMENT)")
		}
		apiVersion := firstNonEmpty(getenv("AZURE_OPENAI_API_VERSION"), cfg.Azure.APIVersion)
		return NewAzureProvider(key, endpoint, deployment, apiVersion), nil

	case config.ProviderAnthropic:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewAnthropicProvider(key, model), nil

	case config.ProviderGoogle:
		key, err := requireKey()
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(key, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
