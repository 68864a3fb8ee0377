package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/overcoach/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize overcoach configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the LLM and embedding providers and generates a .overcoach.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration written to %s\nNext: run `overcoach ingest` to build the knowledge base.\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
