package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/overcoach/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "overcoach",
	Short: "AI-powered Overwatch team composition coach",
	Long: `Overcoach recommends Overwatch team compositions. It builds a semantic
knowledge base of heroes and maps from the OverFast API, retrieves the
relevant context for a map and enemy team, and asks a language model for a
structured recommendation. It is available as a CLI, an HTTP API and an MCP
server for AI agents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
