package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/ingest"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

func (s *Server) handleSuggestTeam(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mapName, err := request.RequireString("map_name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: map_name"), nil
	}

	res, err := s.coach.Suggest(ctx, coach.CompositionRequest{
		MapName:      mapName,
		EnemyTeam:    request.GetStringSlice("enemy_team", nil),
		CurrentTeam:  request.GetStringSlice("current_team", nil),
		Difficulties: request.GetString("difficulties", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suggestion failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatComposition(res)), nil
}

func (s *Server) handleHeroCounters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hero, err := request.RequireString("hero_name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: hero_name"), nil
	}

	res, err := s.coach.Counter(ctx, coach.HeroCounterRequest{HeroName: hero})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("counter lookup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(res.Counters), nil
}

func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}
	collection := request.GetString("collection", vectordb.CollectionHeroes)
	if collection != vectordb.CollectionHeroes && collection != vectordb.CollectionMaps {
		return mcp.NewToolResultError(fmt.Sprintf("unknown collection %q", collection)), nil
	}

	var filter *vectordb.SearchFilter
	if role := request.GetString("role", ""); role != "" && collection == vectordb.CollectionHeroes {
		filter = &vectordb.SearchFilter{Role: &role}
	}

	results, err := s.store.Search(ctx, collection, query, limit, filter)
	if errors.Is(err, vectordb.ErrCollectionNotFound) || (err == nil && len(results) == 0) {
		return mcp.NewToolResultText("No results found. The knowledge base may not be indexed yet. Run `overcoach ingest` to build it."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(vectordb.FormatContext(results)), nil
}

var documentKeyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: kind"), nil
	}
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: key"), nil
	}

	var dir string
	switch kind {
	case ingest.KindHero:
		dir = "heroes"
	case ingest.KindMap:
		dir = "maps"
		key = ingest.SafeMapFilename(key)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}
	key = strings.ToLower(key)
	if !documentKeyRe.MatchString(key) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid key %q", key)), nil
	}

	content, err := os.ReadFile(filepath.Join(s.dataDir, dir, key+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"No document found for %s %q. Run `overcoach ingest` to fetch the knowledge base.",
				kind, key,
			)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read document: %v", err)), nil
	}

	return mcp.NewToolResultText(string(content)), nil
}

func formatComposition(res *coach.TeamCompositionResult) string {
	var b strings.Builder
	b.WriteString("## Recommended team\n\n")
	for _, h := range res.RecommendedTeam {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", h.Name, h.Role, h.Reasoning)
	}
	fmt.Fprintf(&b, "\n## Counter strategy\n\n%s\n", res.Strategy)
	fmt.Fprintf(&b, "\n## Synergies\n\n%s\n", res.Synergies)
	if len(res.Alternatives) > 0 {
		fmt.Fprintf(&b, "\n## Alternatives\n\n%s\n", strings.Join(res.Alternatives, ", "))
	}
	if len(res.RecommendedTeam) == 0 || res.RecommendedTeam[0].IsSentinel() {
		fmt.Fprintf(&b, "\n## Raw response\n\n%s\n", res.RawResponse)
	}
	return b.String()
}
