package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/overcoach/internal/embeddings"
)

const persistFile = "chromem.gob.gz"

// ChromemStore implements VectorStore using chromem-go. Reads are safe for
// concurrent use; chromem guards its collections internally.
type ChromemStore struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) *ChromemStore {
	return &ChromemStore{
		db:        chromem.NewDB(),
		embedFunc: embeddings.ToChromemFunc(embedder),
	}
}

func (s *ChromemStore) AddDocuments(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	col, err := s.db.GetOrCreateCollection(collection, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return col.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, collection, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	col := s.db.GetCollection(collection, s.embedFunc)
	if col == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.Query(ctx, query, limit, buildWhereClause(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query %s: %w", collection, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return searchResults, nil
}

func (s *ChromemStore) DeleteCollection(collection string) error {
	if s.db.GetCollection(collection, s.embedFunc) == nil {
		return nil
	}
	return s.db.DeleteCollection(collection)
}

func (s *ChromemStore) HasCollection(collection string) bool {
	return s.db.GetCollection(collection, s.embedFunc) != nil
}

func (s *ChromemStore) Count(collection string) int {
	col := s.db.GetCollection(collection, s.embedFunc)
	if col == nil {
		return 0
	}
	return col.Count()
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return s.db.ExportToFile(filepath.Join(dir, persistFile), true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, persistFile), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}
	return nil
}

// metadataToMap converts DocumentMetadata to a flat map[string]string for chromem.
func metadataToMap(m DocumentMetadata) map[string]string {
	md := map[string]string{
		"kind":         string(m.Kind),
		"key":          m.Key,
		"name":         m.Name,
		"source_path":  m.SourcePath,
		"content_hash": m.ContentHash,
		"indexed_at":   m.IndexedAt.Format(time.RFC3339),
	}
	if m.Role != "" {
		md["role"] = m.Role
	}
	if len(m.Gamemodes) > 0 {
		md["gamemodes"] = strings.Join(m.Gamemodes, ",")
	}
	return md
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	indexedAt, _ := time.Parse(time.RFC3339, m["indexed_at"])

	var gamemodes []string
	if g := m["gamemodes"]; g != "" {
		gamemodes = strings.Split(g, ",")
	}

	return DocumentMetadata{
		Kind:        DocumentKind(m["kind"]),
		Key:         m["key"],
		Name:        m["name"],
		Role:        m["role"],
		Gamemodes:   gamemodes,
		SourcePath:  m["source_path"],
		ContentHash: m["content_hash"],
		IndexedAt:   indexedAt,
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.Kind != nil {
		where["kind"] = string(*filter.Kind)
	}
	if filter.Role != nil {
		where["role"] = *filter.Role
	}

	if len(where) == 0 {
		return nil
	}
	return where
}

// Persisted reports whether dir holds a persisted store.
func Persisted(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, persistFile))
	return err == nil
}
