// Package embeddings turns hero and map documents, and retrieval queries,
// into vectors for the knowledge store.
package embeddings

import (
	"context"
	"unicode/utf8"
)

// maxInputBytes caps the text sent to an embedding backend. Generated hero
// documents stay well below it; long story summaries are cut.
const maxInputBytes = 8000

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// clip truncates text to at most maxInputBytes without splitting a rune.
func clip(text string) string {
	if len(text) <= maxInputBytes {
		return text
	}
	cut := maxInputBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func clipAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = clip(t)
	}
	return out
}
