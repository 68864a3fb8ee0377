package coach

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Default retrieval depths.
const (
	DefaultTopKHeroes  = 10
	DefaultTopKMaps    = 3
	DefaultCounterTopK = 5
)

// KnowledgeStore is the read-only retrieval capability. Implementations
// return a fixed "not loaded" text rather than an error when a collection is
// unavailable, and an error only when the backend itself fails.
type KnowledgeStore interface {
	QueryHeroes(ctx context.Context, query string, topK int) (string, error)
	QueryMaps(ctx context.Context, query string, topK int) (string, error)
}

// HeroesQuery asks for heroes that counter every enemy and for the enemies'
// own weaknesses.
func HeroesQuery(enemyTeam []string, mapName string) string {
	enemies := strings.Join(enemyTeam, ", ")
	return fmt.Sprintf("Information about heroes that counter %s on map %s.\n"+
		"Also information about %s to understand their weaknesses.\n"+
		"Include abilities, synergies, and counter strategies.", enemies, mapName, enemies)
}

// MapsQuery asks for strategy, key positions and recommended heroes for a map.
func MapsQuery(mapName string) string {
	return fmt.Sprintf("Information about %s map: strategy, key positions, recommended heroes", mapName)
}

// CounterQuery asks which heroes counter heroName.
func CounterQuery(heroName string) string {
	return fmt.Sprintf("What heroes counter %s? Provide specific counter picks and strategies.", heroName)
}

// RetrieveContext runs the heroes and maps queries concurrently and returns
// once both have finished.
func RetrieveContext(ctx context.Context, store KnowledgeStore, heroesQuery, mapsQuery string, topKHeroes, topKMaps int) (RetrievalContext, error) {
	if topKHeroes <= 0 {
		topKHeroes = DefaultTopKHeroes
	}
	if topKMaps <= 0 {
		topKMaps = DefaultTopKMaps
	}

	var rc RetrievalContext
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := store.QueryHeroes(gctx, heroesQuery, topKHeroes)
		if err != nil {
			return fmt.Errorf("heroes query: %w", err)
		}
		rc.HeroesText = text
		return nil
	})
	g.Go(func() error {
		text, err := store.QueryMaps(gctx, mapsQuery, topKMaps)
		if err != nil {
			return fmt.Errorf("maps query: %w", err)
		}
		rc.MapsText = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return RetrievalContext{}, err
	}
	return rc, nil
}
