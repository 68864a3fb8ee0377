package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/ziadkadry99/overcoach/internal/mcp"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing team suggestion, hero counter and knowledge search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(context.Background())
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		mcpserver.Version = Version

		a.logger.Info("overcoach MCP server started on stdio",
			zap.String("data_dir", a.cfg.DataDir),
			zap.Int("heroes_indexed", a.store.Count(vectordb.CollectionHeroes)),
			zap.Int("maps_indexed", a.store.Count(vectordb.CollectionMaps)),
		)

		srv := mcpserver.NewServer(a.coach, a.store, a.cfg.DataDir)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
