package config

// ProviderType identifies a completion or embedding backend.
type ProviderType string

const (
	ProviderOllama     ProviderType = "ollama"
	ProviderOpenAI     ProviderType = "openai"
	ProviderAzure      ProviderType = "azure"
	ProviderGitHub     ProviderType = "github"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderGoogle     ProviderType = "google"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Config is the top-level overcoach configuration, corresponding to .overcoach.yml.
// An empty Provider means "auto-detect from the environment", see ResolveProvider.
type Config struct {
	Provider                 ProviderType `yaml:"provider" koanf:"provider"`
	Model                    string       `yaml:"model" koanf:"model"`
	EmbeddingProvider        ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel           string       `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir                  string       `yaml:"data_dir" koanf:"data_dir"`
	OverFastURL              string       `yaml:"overfast_url" koanf:"overfast_url"`
	Port                     int          `yaml:"port" koanf:"port"`
	CompletionTimeoutSeconds int          `yaml:"completion_timeout_seconds" koanf:"completion_timeout_seconds"`
	Temperature              float64      `yaml:"temperature" koanf:"temperature"`
	MaxTokens                int          `yaml:"max_tokens" koanf:"max_tokens"`
	RateLimitRPM             int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	TopKHeroes               int          `yaml:"top_k_heroes" koanf:"top_k_heroes"`
	TopKMaps                 int          `yaml:"top_k_maps" koanf:"top_k_maps"`
	LogLevel                 string       `yaml:"log_level" koanf:"log_level"`
	Azure                    AzureConfig  `yaml:"azure" koanf:"azure"`
}

// AzureConfig holds Azure OpenAI deployment settings.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint" koanf:"endpoint"`
	Deployment string `yaml:"deployment" koanf:"deployment"`
	APIVersion string `yaml:"api_version" koanf:"api_version"`
}
