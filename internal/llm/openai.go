package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	githubModelsBaseURL = "https://models.inference.ai.azure.com"
	openRouterBaseURL   = "https://openrouter.ai/api/v1"
)

// OpenAIProvider implements Provider for every backend that speaks the
// OpenAI Chat Completions API: OpenAI itself, Azure OpenAI, GitHub Models
// and OpenRouter.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for api.openai.com.
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return &OpenAIProvider{name: "openai", client: openai.NewClient(apiKey), model: model}
}

// NewGitHubProvider creates a provider for GitHub Models, authenticated
// with a personal access token.
func NewGitHubProvider(token string, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = githubModelsBaseURL
	return &OpenAIProvider{name: "github", client: openai.NewClientWithConfig(cfg), model: model}
}

// NewOpenRouterProvider creates a provider for OpenRouter.
func NewOpenRouterProvider(apiKey string, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	return &OpenAIProvider{name: "openrouter", client: openai.NewClientWithConfig(cfg), model: model}
}

// NewAzureProvider creates a provider for an Azure OpenAI deployment.
// Every request is routed to deployment regardless of the model name.
func NewAzureProvider(apiKey, endpoint, deployment, apiVersion string) *OpenAIProvider {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	return &OpenAIProvider{name: "azure", client: openai.NewClientWithConfig(cfg), model: deployment}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion failed: %w", p.name, err)
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}
