// Package mcp exposes the coach as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Coach is the recommendation capability behind the tools.
type Coach interface {
	Suggest(ctx context.Context, req coach.CompositionRequest) (*coach.TeamCompositionResult, error)
	Counter(ctx context.Context, req coach.HeroCounterRequest) (*coach.HeroCounterResult, error)
}

// Server wraps an MCP server that exposes coaching and knowledge tools.
type Server struct {
	coach   Coach
	store   vectordb.VectorStore
	dataDir string
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(c Coach, store vectordb.VectorStore, dataDir string) *Server {
	s := &Server{
		coach:   c,
		store:   store,
		dataDir: dataDir,
	}

	s.mcp = server.NewMCPServer(
		"overcoach",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(suggestTeamTool, s.handleSuggestTeam)
	s.mcp.AddTool(heroCountersTool, s.handleHeroCounters)
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
