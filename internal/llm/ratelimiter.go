package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider caps the completion rate of a Provider.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider allows at most rpm completions per minute, with a
// burst of rpm so that a fresh process is not throttled.
func NewRateLimitedProvider(provider Provider, rpm int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

// Complete waits for a slot, honouring ctx, then forwards the request.
func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.provider.Complete(ctx, req)
}

// Ping forwards to the wrapped provider when it supports health checks.
// Pings do not consume completion slots.
func (r *RateLimitedProvider) Ping(ctx context.Context) error {
	if p, ok := r.provider.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
