package llm

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Pinger is implemented by providers that can cheaply check reachability
// of their backend without running an inference.
type Pinger interface {
	Ping(ctx context.Context) error
}
