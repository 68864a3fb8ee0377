package vectordb

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned when querying a collection that was
// never indexed or loaded.
var ErrCollectionNotFound = errors.New("collection not found")

// VectorStore stores documents in named collections and searches them by
// embedding similarity.
type VectorStore interface {
	// AddDocuments adds or updates documents in the collection, creating it if needed.
	AddDocuments(ctx context.Context, collection string, docs []Document) error

	// Search performs a semantic search in one collection.
	Search(ctx context.Context, collection, query string, limit int, filter *SearchFilter) ([]SearchResult, error)

	// DeleteCollection drops a collection and its documents.
	DeleteCollection(collection string) error

	// HasCollection reports whether the collection exists.
	HasCollection(collection string) bool

	// Count returns the number of documents in the collection, 0 if absent.
	Count(collection string) int

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error
}
