package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

// mockCoach records requests and returns canned results.
type mockCoach struct {
	suggestReq coach.CompositionRequest
	counterReq coach.HeroCounterRequest
	err        error
}

func (m *mockCoach) Suggest(_ context.Context, req coach.CompositionRequest) (*coach.TeamCompositionResult, error) {
	m.suggestReq = req
	if m.err != nil {
		return nil, m.err
	}
	res := coach.ParseResponse("RECOMMENDED TEAM\nTank: Winston - dives the backline\n\nCOUNTER STRATEGY\nFocus Ana.\n\nALTERNATIVES\n- Wrecking Ball (Tank): mobile")
	return &res, nil
}

func (m *mockCoach) Counter(_ context.Context, req coach.HeroCounterRequest) (*coach.HeroCounterResult, error) {
	m.counterReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &coach.HeroCounterResult{Hero: req.HeroName, Counters: "Hard counters: Sombra"}, nil
}

// mockStore implements vectordb.VectorStore for testing.
type mockStore struct {
	docs map[string][]vectordb.Document
}

func (m *mockStore) AddDocuments(_ context.Context, collection string, docs []vectordb.Document) error {
	if m.docs == nil {
		m.docs = make(map[string][]vectordb.Document)
	}
	m.docs[collection] = append(m.docs[collection], docs...)
	return nil
}

func (m *mockStore) Search(_ context.Context, collection, _ string, limit int, filter *vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	docs, ok := m.docs[collection]
	if !ok {
		return nil, vectordb.ErrCollectionNotFound
	}
	var results []vectordb.SearchResult
	for _, doc := range docs {
		if filter != nil && filter.Role != nil && doc.Metadata.Role != *filter.Role {
			continue
		}
		results = append(results, vectordb.SearchResult{Document: doc, Similarity: 0.9})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *mockStore) DeleteCollection(collection string) error {
	delete(m.docs, collection)
	return nil
}
func (m *mockStore) HasCollection(collection string) bool {
	_, ok := m.docs[collection]
	return ok
}

func (m *mockStore) Count(collection string) int               { return len(m.docs[collection]) }
func (m *mockStore) Persist(_ context.Context, _ string) error { return nil }
func (m *mockStore) Load(_ context.Context, _ string) error    { return nil }

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{suggestTeamTool, "suggest_team"},
		{heroCountersTool, "hero_counters"},
		{searchKnowledgeTool, "search_knowledge"},
		{getDocumentTool, "get_document"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	c := &mockCoach{}
	store := &mockStore{}
	srv := NewServer(c, store, "/tmp/data")

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.dataDir != "/tmp/data" {
		t.Errorf("dataDir = %q, want %q", srv.dataDir, "/tmp/data")
	}
}

func TestHandleSuggestTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("passes request through", func(t *testing.T) {
		c := &mockCoach{}
		srv := NewServer(c, &mockStore{}, t.TempDir())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"map_name":     "King's Row",
			"enemy_team":   []any{"Tracer", "Ana"},
			"current_team": []any{"Mercy"},
			"difficulties": "flankers",
		}

		result, err := srv.handleSuggestTeam(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if c.suggestReq.MapName != "King's Row" || c.suggestReq.Difficulties != "flankers" {
			t.Errorf("request = %+v", c.suggestReq)
		}
		if len(c.suggestReq.EnemyTeam) != 2 || c.suggestReq.EnemyTeam[1] != "Ana" {
			t.Errorf("enemy team = %v", c.suggestReq.EnemyTeam)
		}
		text := resultText(t, result)
		for _, want := range []string{"**Winston** (tank): dives the backline", "Focus Ana.", "Wrecking Ball"} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
		if strings.Contains(text, "Raw response") {
			t.Error("raw response should only be shown when parsing failed")
		}
	})

	t.Run("missing map", func(t *testing.T) {
		srv := NewServer(&mockCoach{}, &mockStore{}, t.TempDir())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSuggestTeam(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing map_name")
		}
	})

	t.Run("coach failure", func(t *testing.T) {
		c := &mockCoach{err: coach.ErrUpstreamUnavailable}
		srv := NewServer(c, &mockStore{}, t.TempDir())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"map_name": "Ilios"}

		result, err := srv.handleSuggestTeam(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when the coach fails")
		}
	})
}

func TestHandleHeroCounters(t *testing.T) {
	ctx := context.Background()
	c := &mockCoach{}
	srv := NewServer(c, &mockStore{}, t.TempDir())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"hero_name": "Pharah"}

	result, err := srv.handleHeroCounters(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if c.counterReq.HeroName != "Pharah" {
		t.Errorf("hero = %q", c.counterReq.HeroName)
	}
	if got := resultText(t, result); got != "Hard counters: Sombra" {
		t.Errorf("text = %q", got)
	}

	c.err = errors.New("boom")
	result, err = srv.handleHeroCounters(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error when the coach fails")
	}
}

func TestHandleSearchKnowledge(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	_ = store.AddDocuments(ctx, vectordb.CollectionHeroes, []vectordb.Document{
		{ID: "hero:ana", Content: "Ana sleeps", Metadata: vectordb.DocumentMetadata{Name: "Ana", Role: "support"}},
		{ID: "hero:winston", Content: "Winston jumps", Metadata: vectordb.DocumentMetadata{Name: "Winston", Role: "tank"}},
	})
	srv := NewServer(&mockCoach{}, store, t.TempDir())

	t.Run("role filter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "dive", "role": "tank"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Winston") || strings.Contains(text, "Ana") {
			t.Errorf("unexpected results:\n%s", text)
		}
	})

	t.Run("unindexed collection", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "high ground", "collection": "maps"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("an empty index should not be an error")
		}
		if !strings.Contains(resultText(t, result), "overcoach ingest") {
			t.Error("expected ingest hint")
		}
	})

	t.Run("unknown collection", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "x", "collection": "skins"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown collection")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleGetDocument(t *testing.T) {
	dataDir := t.TempDir()
	for _, dir := range []string{"heroes", "maps"} {
		if err := os.MkdirAll(filepath.Join(dataDir, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dataDir, "heroes", "ana.md"), []byte("# Ana\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "maps", "kings-row.md"), []byte("# King's Row\n"), 0644); err != nil {
		t.Fatal(err)
	}

	srv := NewServer(&mockCoach{}, &mockStore{}, dataDir)
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    string
		key     string
		want    string
		wantErr bool
	}{
		{"hero", "hero", "ana", "# Ana", false},
		{"map by display name", "map", "King's Row", "# King's Row", false},
		{"missing hero", "hero", "tracer", "", true},
		{"traversal", "hero", "../secrets", "", true},
		{"bad kind", "skin", "ana", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = map[string]any{"kind": tt.kind, "key": tt.key}

			result, err := srv.handleGetDocument(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v: %v", result.IsError, tt.wantErr, result.Content)
			}
			if !tt.wantErr && !strings.Contains(resultText(t, result), tt.want) {
				t.Errorf("document missing %q", tt.want)
			}
		})
	}
}

func TestFormatCompositionSentinel(t *testing.T) {
	res := coach.ParseResponse("no structure here")
	text := formatComposition(&res)
	if !strings.Contains(text, "## Raw response") || !strings.Contains(text, "no structure here") {
		t.Errorf("sentinel result should include the raw response:\n%s", text)
	}
}
