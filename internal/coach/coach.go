package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUpstreamUnavailable marks failures of the knowledge store or the
	// completion provider, including the completion deadline.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrKnowledgeUnavailable marks a knowledge store backend failure. It is
	// always wrapped together with ErrUpstreamUnavailable.
	ErrKnowledgeUnavailable = errors.New("knowledge store unavailable")
	// ErrInvalidRequest marks a request missing a required field.
	ErrInvalidRequest = errors.New("invalid request")
)

// Sentinel texts returned by a KnowledgeStore whose collection is not loaded.
const (
	HeroesNotLoaded = "Heroes index not loaded."
	MapsNotLoaded   = "Maps index not loaded."
)

// Completer is the completion capability: one blocking inference call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options tunes a Coach. Zero values fall back to the package defaults.
type Options struct {
	TopKHeroes        int
	TopKMaps          int
	CounterTopK       int
	CompletionTimeout time.Duration
}

// Coach runs the retrieval, prompt, completion and parse pipeline.
type Coach struct {
	store     KnowledgeStore
	completer Completer
	opts      Options
	logger    *zap.Logger
}

// New creates a Coach. A nil logger is replaced with a no-op logger.
func New(store KnowledgeStore, completer Completer, opts Options, logger *zap.Logger) *Coach {
	if opts.TopKHeroes <= 0 {
		opts.TopKHeroes = DefaultTopKHeroes
	}
	if opts.TopKMaps <= 0 {
		opts.TopKMaps = DefaultTopKMaps
	}
	if opts.CounterTopK <= 0 {
		opts.CounterTopK = DefaultCounterTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{store: store, completer: completer, opts: opts, logger: logger}
}

// Suggest recommends a team composition for req.
func (c *Coach) Suggest(ctx context.Context, req CompositionRequest) (*TeamCompositionResult, error) {
	if strings.TrimSpace(req.MapName) == "" {
		return nil, fmt.Errorf("%w: map_name is required", ErrInvalidRequest)
	}

	log := c.logger.With(zap.String("map", req.MapName), zap.Strings("enemy_team", req.EnemyTeam))

	rc, err := RetrieveContext(ctx, c.store, HeroesQuery(req.EnemyTeam, req.MapName), MapsQuery(req.MapName), c.opts.TopKHeroes, c.opts.TopKMaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrUpstreamUnavailable, ErrKnowledgeUnavailable, err)
	}
	if rc.HeroesText == HeroesNotLoaded && rc.MapsText == MapsNotLoaded {
		log.Warn("knowledge indexes not loaded, completing without context")
	}

	raw, err := c.complete(ctx, AssemblePrompt(req, rc))
	if err != nil {
		return nil, err
	}

	res := ParseResponse(raw)
	if res.RecommendedTeam[0].IsSentinel() {
		log.Warn("no recommendations parsed from completion", zap.Int("response_bytes", len(raw)))
	}
	log.Info("suggested composition", zap.Int("heroes", len(res.RecommendedTeam)), zap.Int("alternatives", len(res.Alternatives)))
	return &res, nil
}

// Counter asks which heroes counter req.HeroName. The completion text is
// returned unparsed.
func (c *Coach) Counter(ctx context.Context, req HeroCounterRequest) (*HeroCounterResult, error) {
	hero := strings.TrimSpace(req.HeroName)
	if hero == "" {
		return nil, fmt.Errorf("%w: hero_name is required", ErrInvalidRequest)
	}

	heroesText, err := c.store.QueryHeroes(ctx, CounterQuery(hero), c.opts.CounterTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: heroes query: %w", ErrUpstreamUnavailable, ErrKnowledgeUnavailable, err)
	}
	if heroesText == HeroesNotLoaded {
		c.logger.Warn("heroes index not loaded, completing without context", zap.String("hero", hero))
	}

	counters, err := c.complete(ctx, AssembleCounterPrompt(hero, heroesText))
	if err != nil {
		return nil, err
	}
	c.logger.Info("answered counter query", zap.String("hero", hero))
	return &HeroCounterResult{Hero: hero, Counters: counters}, nil
}

// complete wraps the completion call, and only that call, in the configured
// deadline.
func (c *Coach) complete(ctx context.Context, prompt string) (string, error) {
	if c.opts.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CompletionTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("completion failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", fmt.Errorf("%w: completion: %w", ErrUpstreamUnavailable, err)
	}
	c.logger.Debug("completion finished", zap.Duration("elapsed", time.Since(start)), zap.Int("prompt_bytes", len(prompt)))
	return raw, nil
}
