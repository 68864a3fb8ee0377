package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

var wizardProviders = []string{"auto", "ollama", "openai", "azure", "github", "anthropic", "google", "openrouter"}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to overcoach! Let's configure your coach.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Completion provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider (auto = detect from API keys)",
		Items: wizardProviders,
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	if providerStr != "auto" {
		cfg.Provider = ProviderType(providerStr)
	}

	// 2. Model.
	effective := ResolveProvider(cfg, os.Getenv)
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(effective),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if model != DefaultModel(effective) {
		cfg.Model = strings.TrimSpace(model)
	}

	if effective == ProviderAzure {
		if err := promptAzure(cfg); err != nil {
			return nil, err
		}
	}

	// 3. Embeddings.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "openai", "google"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(embedStr)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (markdown, vector index, cache)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(effective); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running overcoach serve.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func promptAzure(cfg *Config) error {
	endpoint, err := (&promptui.Prompt{Label: "Azure OpenAI endpoint"}).Run()
	if err != nil {
		return fmt.Errorf("azure endpoint: %w", err)
	}
	deployment, err := (&promptui.Prompt{Label: "Azure OpenAI deployment"}).Run()
	if err != nil {
		return fmt.Errorf("azure deployment: %w", err)
	}
	cfg.Azure.Endpoint = strings.TrimSpace(endpoint)
	cfg.Azure.Deployment = strings.TrimSpace(deployment)
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
