package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Completer turns a Provider into a single-prompt completion function:
// one user message in, the model's text out. It does not retry.
type Completer struct {
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger
}

// NewCompleter creates a Completer. An empty model uses the provider's own.
func NewCompleter(provider Provider, model string, temperature float64, maxTokens int, logger *zap.Logger) *Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Provider returns the wrapped provider.
func (c *Completer) Provider() Provider { return c.provider }

// Complete runs one inference for prompt and returns the raw text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.provider.Complete(ctx, CompletionRequest{
		Model:       c.model,
		Messages:    userPrompt(prompt),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion via %s: %w", c.provider.Name(), err)
	}

	inputTokens := resp.InputTokens
	if inputTokens == 0 {
		inputTokens = EstimateTokens(prompt)
	}
	c.logger.Debug("completion finished",
		zap.String("provider", c.provider.Name()),
		zap.String("model", resp.Model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("input_tokens", inputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("cost_usd", EstimateCost(resp.Model, inputTokens, resp.OutputTokens)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp.Content, nil
}
