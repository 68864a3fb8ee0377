package config

// autoDetectOrder is the order in which API keys are probed when no provider
// is configured explicitly.
var autoDetectOrder = []ProviderType{
	ProviderGitHub,
	ProviderOpenAI,
	ProviderAzure,
	ProviderAnthropic,
	ProviderGoogle,
	ProviderOpenRouter,
}

// ResolveProvider picks the completion backend once at startup:
// an explicit provider wins, then the first provider whose API key is
// present in the environment, then Ollama.
func ResolveProvider(c *Config, getenv func(string) string) ProviderType {
	if c.Provider != "" && validProviders[c.Provider] {
		return c.Provider
	}
	for _, p := range autoDetectOrder {
		if getenv(APIKeyEnvVar(p)) != "" {
			return p
		}
	}
	return ProviderOllama
}
