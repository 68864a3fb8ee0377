package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/progress"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

// ErrNoDocuments is returned when a data directory holds no markdown for
// any collection.
var ErrNoDocuments = errors.New("no markdown documents found")

type collectionSpec struct {
	pattern    string
	collection string
	kind       vectordb.DocumentKind
}

var collectionSpecs = []collectionSpec{
	{pattern: "heroes/*.md", collection: vectordb.CollectionHeroes, kind: vectordb.KindHero},
	{pattern: "maps/*.md", collection: vectordb.CollectionMaps, kind: vectordb.KindMap},
}

// IndexResult summarizes an indexing pass.
type IndexResult struct {
	Heroes   int
	Maps     int
	Duration time.Duration
}

// Indexer loads knowledge documents into the vector store.
type Indexer struct {
	store    vectordb.VectorStore
	logger   *zap.Logger
	reporter progress.Reporter
}

// NewIndexer creates an Indexer writing to store.
func NewIndexer(store vectordb.VectorStore, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{store: store, logger: logger, reporter: progress.Nop{}}
}

// SetReporter sets the progress reporter.
func (ix *Indexer) SetReporter(r progress.Reporter) {
	ix.reporter = r
}

// IndexDir indexes dataDir/heroes/*.md and dataDir/maps/*.md.
func (ix *Indexer) IndexDir(ctx context.Context, dataDir string) (*IndexResult, error) {
	return ix.Index(ctx, os.DirFS(dataDir))
}

// Index rebuilds the heroes and maps collections from fsys. A collection
// with no documents on disk is left untouched.
func (ix *Indexer) Index(ctx context.Context, fsys fs.FS) (*IndexResult, error) {
	start := time.Now()
	res := &IndexResult{}

	for _, spec := range collectionSpecs {
		docs, err := loadDocuments(fsys, spec)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			ix.logger.Warn("no documents to index", zap.String("collection", spec.collection), zap.String("pattern", spec.pattern))
			continue
		}

		ix.reporter.Start(len(docs), "Indexing "+spec.collection)
		if ix.store.HasCollection(spec.collection) {
			if err := ix.store.DeleteCollection(spec.collection); err != nil {
				ix.reporter.Finish()
				return nil, fmt.Errorf("resetting %s: %w", spec.collection, err)
			}
		}
		for i, doc := range docs {
			if err := ix.store.AddDocuments(ctx, spec.collection, []vectordb.Document{doc}); err != nil {
				ix.reporter.Finish()
				return nil, fmt.Errorf("indexing %s: %w", doc.Metadata.SourcePath, err)
			}
			ix.reporter.Update(i+1, doc.Metadata.Name)
		}
		ix.reporter.Finish()

		ix.logger.Info("indexed collection", zap.String("collection", spec.collection), zap.Int("documents", len(docs)))
		switch spec.kind {
		case vectordb.KindHero:
			res.Heroes = len(docs)
		case vectordb.KindMap:
			res.Maps = len(docs)
		}
	}

	if res.Heroes == 0 && res.Maps == 0 {
		return nil, ErrNoDocuments
	}
	res.Duration = time.Since(start)
	return res, nil
}

func loadDocuments(fsys fs.FS, spec collectionSpec) ([]vectordb.Document, error) {
	matches, err := doublestar.Glob(fsys, spec.pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", spec.pattern, err)
	}

	now := time.Now().UTC()
	docs := make([]vectordb.Document, 0, len(matches))
	for _, rel := range matches {
		content, err := fs.ReadFile(fsys, rel)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			continue
		}
		docs = append(docs, buildDocument(spec.kind, rel, content, now))
	}
	return docs, nil
}

func buildDocument(kind vectordb.DocumentKind, rel string, content []byte, indexedAt time.Time) vectordb.Document {
	key := strings.TrimSuffix(path.Base(rel), ".md")
	info := ParseDocument(content)
	sum := sha256.Sum256(content)

	meta := vectordb.DocumentMetadata{
		Kind:        kind,
		Key:         key,
		Name:        orDefault(info.Title, orDefault(info.Fields["Name"], key)),
		SourcePath:  rel,
		ContentHash: hex.EncodeToString(sum[:]),
		IndexedAt:   indexedAt,
	}
	if role := info.Fields["Role"]; role != "" && role != "N/A" {
		meta.Role = strings.ToLower(role)
	}
	if modes := info.Fields["Gamemodes"]; modes != "" {
		for _, m := range strings.Split(modes, ",") {
			meta.Gamemodes = append(meta.Gamemodes, strings.TrimSpace(m))
		}
	}

	return vectordb.Document{
		ID:       string(kind) + ":" + key,
		Content:  string(content),
		Metadata: meta,
	}
}
