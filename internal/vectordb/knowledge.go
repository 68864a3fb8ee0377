package vectordb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/overcoach/internal/coach"
)

// KnowledgeBase answers natural-language retrieval queries against the
// heroes and maps collections, returning formatted context text. It
// implements coach.KnowledgeStore; an unloaded collection answers with the
// coach's not-loaded text instead of an error.
type KnowledgeBase struct {
	store VectorStore
}

var _ coach.KnowledgeStore = (*KnowledgeBase)(nil)

// NewKnowledgeBase wraps a VectorStore. A nil store behaves as unloaded.
func NewKnowledgeBase(store VectorStore) *KnowledgeBase {
	return &KnowledgeBase{store: store}
}

// QueryHeroes retrieves up to topK hero documents for query.
func (k *KnowledgeBase) QueryHeroes(ctx context.Context, query string, topK int) (string, error) {
	return k.query(ctx, CollectionHeroes, query, topK, coach.HeroesNotLoaded)
}

// QueryMaps retrieves up to topK map documents for query.
func (k *KnowledgeBase) QueryMaps(ctx context.Context, query string, topK int) (string, error) {
	return k.query(ctx, CollectionMaps, query, topK, coach.MapsNotLoaded)
}

// Counts returns the number of indexed heroes and maps.
func (k *KnowledgeBase) Counts() (heroes, maps int) {
	if k.store == nil {
		return 0, 0
	}
	return k.store.Count(CollectionHeroes), k.store.Count(CollectionMaps)
}

func (k *KnowledgeBase) query(ctx context.Context, collection, query string, topK int, notLoaded string) (string, error) {
	if k.store == nil || k.store.Count(collection) == 0 {
		return notLoaded, nil
	}

	results, err := k.store.Search(ctx, collection, query, topK, nil)
	if errors.Is(err, ErrCollectionNotFound) {
		return notLoaded, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", collection, err)
	}
	return FormatContext(results), nil
}
