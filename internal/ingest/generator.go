// Package ingest fetches hero and map data from OverFast, renders it as
// markdown knowledge documents and indexes those documents into the vector
// store collections the coach queries.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/overfast"
	"github.com/ziadkadry99/overcoach/internal/progress"
)

// Default request pacing against the OverFast API.
const (
	DefaultPace             = 500 * time.Millisecond
	DefaultRateLimitBackoff = 15 * time.Second
)

// Source is the OverFast data the generator reads.
type Source interface {
	Heroes(ctx context.Context) ([]overfast.HeroSummary, error)
	Hero(ctx context.Context, key string) (*overfast.HeroDetail, error)
	Maps(ctx context.Context) ([]overfast.Map, error)
}

// GenerateResult summarizes one generation run.
type GenerateResult struct {
	RunID     string
	HeroFiles []string
	MapFiles  []string
	Failed    []string
	Changed   int
}

// Generator writes hero and map markdown files from a Source.
type Generator struct {
	source    Source
	cache     *Store
	heroesDir string
	mapsDir   string
	logger    *zap.Logger
	reporter  progress.Reporter
	pace      time.Duration
	backoff   time.Duration
}

// NewGenerator creates a Generator. cache may be nil to skip raw payload
// caching and run bookkeeping.
func NewGenerator(source Source, cache *Store, heroesDir, mapsDir string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		source:    source,
		cache:     cache,
		heroesDir: heroesDir,
		mapsDir:   mapsDir,
		logger:    logger,
		reporter:  progress.Nop{},
		pace:      DefaultPace,
		backoff:   DefaultRateLimitBackoff,
	}
}

// SetReporter sets the progress reporter.
func (g *Generator) SetReporter(r progress.Reporter) {
	g.reporter = r
}

// SetPacing overrides the delay between hero requests and the wait after
// a rate-limited response.
func (g *Generator) SetPacing(pace, backoff time.Duration) {
	g.pace = pace
	g.backoff = backoff
}

// Run generates all hero and map documents. Per-item failures are logged
// and counted; listing failures abort the run.
func (g *Generator) Run(ctx context.Context) (res *GenerateResult, err error) {
	for _, dir := range []string{g.heroesDir, g.mapsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	res = &GenerateResult{}
	if g.cache != nil {
		var run *Run
		run, err = g.cache.StartRun(ctx)
		if err != nil {
			return nil, err
		}
		res.RunID = run.ID
		defer func() {
			run.Heroes, run.Maps, run.Failures = len(res.HeroFiles), len(res.MapFiles), len(res.Failed)
			if ferr := g.cache.FinishRun(context.WithoutCancel(ctx), run, err); ferr != nil && err == nil {
				err = ferr
			}
		}()
	}

	if err := g.generateHeroes(ctx, res); err != nil {
		return res, err
	}
	if err := g.generateMaps(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

func (g *Generator) generateHeroes(ctx context.Context, res *GenerateResult) error {
	heroes, err := g.source.Heroes(ctx)
	if err != nil {
		return fmt.Errorf("listing heroes: %w", err)
	}
	g.logger.Info("fetched hero list", zap.Int("heroes", len(heroes)))

	g.reporter.Start(len(heroes), "Fetching heroes")
	defer g.reporter.Finish()

	for i, h := range heroes {
		name := orDefault(h.Name, h.Key)
		g.reporter.Update(i+1, name)

		path, err := g.saveHero(ctx, h.Key, res)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.logger.Warn("hero failed", zap.String("hero", h.Key), zap.Error(err))
			res.Failed = append(res.Failed, KindHero+":"+h.Key)
			if overfast.IsRateLimited(err) {
				g.logger.Info("rate limited, backing off", zap.Duration("wait", g.backoff))
				if err := sleep(ctx, g.backoff); err != nil {
					return err
				}
			}
			continue
		}
		res.HeroFiles = append(res.HeroFiles, path)

		if i < len(heroes)-1 {
			if err := sleep(ctx, g.pace); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) saveHero(ctx context.Context, key string, res *GenerateResult) (string, error) {
	detail, err := g.source.Hero(ctx, key)
	if err != nil {
		return "", err
	}
	if err := g.cacheRaw(ctx, KindHero, key, detail.Name, detail.Raw, res); err != nil {
		return "", err
	}
	path := filepath.Join(g.heroesDir, key+".md")
	if err := os.WriteFile(path, []byte(HeroMarkdown(key, detail)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (g *Generator) generateMaps(ctx context.Context, res *GenerateResult) error {
	maps, err := g.source.Maps(ctx)
	if err != nil {
		return fmt.Errorf("listing maps: %w", err)
	}
	g.logger.Info("fetched map list", zap.Int("maps", len(maps)))

	g.reporter.Start(len(maps), "Writing maps")
	defer g.reporter.Finish()

	for i, m := range maps {
		g.reporter.Update(i+1, orDefault(m.Name, "Unknown"))

		safe := SafeMapFilename(m.Name)
		if err := g.cacheRaw(ctx, KindMap, safe, m.Name, m.Raw, res); err != nil {
			g.logger.Warn("map failed", zap.String("map", m.Name), zap.Error(err))
			res.Failed = append(res.Failed, KindMap+":"+safe)
			continue
		}
		path := filepath.Join(g.mapsDir, safe+".md")
		if err := os.WriteFile(path, []byte(MapMarkdown(m)), 0o644); err != nil {
			g.logger.Warn("map failed", zap.String("map", m.Name), zap.Error(err))
			res.Failed = append(res.Failed, KindMap+":"+safe)
			continue
		}
		res.MapFiles = append(res.MapFiles, path)
	}
	return nil
}

func (g *Generator) cacheRaw(ctx context.Context, kind, key, name string, payload []byte, res *GenerateResult) error {
	if g.cache == nil || len(payload) == 0 {
		return nil
	}
	changed, err := g.cache.SaveRaw(ctx, kind, key, name, payload, res.RunID)
	if err != nil {
		return err
	}
	if changed {
		res.Changed++
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

