package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/overcoach/internal/coach"
)

var counterCmd = &cobra.Command{
	Use:     "counter <hero>",
	Short:   "Explain how to counter a hero",
	Example: `  overcoach counter Pharah`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCounter,
}

func init() {
	counterCmd.Flags().Bool("json", false, "output the result as JSON")
	rootCmd.AddCommand(counterCmd)
}

func runCounter(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	res, err := a.coach.Counter(ctx, coach.HeroCounterRequest{HeroName: args[0]})
	if err != nil {
		return fmt.Errorf("countering %s: %w", args[0], err)
	}

	if jsonOutput {
		return printJSON(res)
	}
	fmt.Println(res.Counters)
	return nil
}
