package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/config"
	"github.com/ziadkadry99/overcoach/internal/embeddings"
	"github.com/ziadkadry99/overcoach/internal/llm"
	"github.com/ziadkadry99/overcoach/internal/logging"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `overcoach init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level)
}

// openVectorStore creates the chromem store and loads the persisted
// collections when an index exists. A missing index is not an error.
func openVectorStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*vectordb.ChromemStore, error) {
	embedder, err := embeddings.New(cfg, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store := vectordb.NewChromemStore(embedder)
	dir := cfg.VectorDBDir()
	if !vectordb.Persisted(dir) {
		logger.Warn("knowledge base not indexed yet, run `overcoach ingest`", zap.String("dir", dir))
		return store, nil
	}
	if err := store.Load(ctx, dir); err != nil {
		return nil, fmt.Errorf("loading vector store from %s: %w", dir, err)
	}
	logger.Debug("vector store loaded",
		zap.String("dir", dir),
		zap.Int("heroes", store.Count(vectordb.CollectionHeroes)),
		zap.Int("maps", store.Count(vectordb.CollectionMaps)),
	)
	return store, nil
}

// newProvider resolves and builds the completion provider.
func newProvider(cfg *config.Config) (llm.Provider, config.ProviderType, error) {
	p := config.ResolveProvider(cfg, os.Getenv)
	provider, err := llm.NewProvider(cfg, p, os.Getenv)
	if err != nil {
		return nil, p, fmt.Errorf("creating LLM provider: %w", err)
	}
	return provider, p, nil
}

// newCoach wires the knowledge base and the completion provider into a Coach.
func newCoach(cfg *config.Config, store vectordb.VectorStore, provider llm.Provider, p config.ProviderType, logger *zap.Logger) *coach.Coach {
	completer := llm.NewCompleter(provider, cfg.ModelFor(p), cfg.Temperature, cfg.MaxTokens, logger)
	return coach.New(vectordb.NewKnowledgeBase(store), completer, coach.Options{
		TopKHeroes:        cfg.TopKHeroes,
		TopKMaps:          cfg.TopKMaps,
		CounterTopK:       coach.DefaultCounterTopK,
		CompletionTimeout: cfg.CompletionTimeout(),
	}, logger)
}

// app bundles what the coaching commands need.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *vectordb.ChromemStore
	coach    *coach.Coach
	provider llm.Provider
	name     config.ProviderType
}

// setup loads config, logger, knowledge base and provider for commands that
// answer coaching requests.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openVectorStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	provider, name, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		coach:    newCoach(cfg, store, provider, name, logger),
		provider: provider,
		name:     name,
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
