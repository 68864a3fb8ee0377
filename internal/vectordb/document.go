package vectordb

import "time"

// Collection names used by the coach.
const (
	CollectionHeroes = "heroes"
	CollectionMaps   = "maps"
)

// DocumentKind categorizes the kind of document stored in the vector DB.
type DocumentKind string

const (
	KindHero DocumentKind = "hero"
	KindMap  DocumentKind = "map"
)

// Document represents a piece of content to be stored and searched.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about a hero or map document.
type DocumentMetadata struct {
	Kind        DocumentKind
	Key         string
	Name        string
	Role        string   // heroes only
	Gamemodes   []string // maps only
	SourcePath  string
	ContentHash string
	IndexedAt   time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	Kind *DocumentKind
	Role *string
}
