package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/overcoach/internal/coach"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Recommend a team composition for a map and enemy team",
	Example: `  overcoach suggest --map "King's Row" --enemy Tracer,Genji,Ana
  overcoach suggest --map Ilios --team Mercy --difficulties "losing to Pharah" --json`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().String("map", "", "map name (required)")
	suggestCmd.Flags().StringSlice("enemy", nil, "enemy heroes, comma separated")
	suggestCmd.Flags().StringSlice("team", nil, "heroes already on your team, comma separated")
	suggestCmd.Flags().String("difficulties", "", "what your team is struggling with")
	suggestCmd.Flags().Bool("json", false, "output the result as JSON")
	_ = suggestCmd.MarkFlagRequired("map")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	mapName, _ := cmd.Flags().GetString("map")
	enemy, _ := cmd.Flags().GetStringSlice("enemy")
	team, _ := cmd.Flags().GetStringSlice("team")
	difficulties, _ := cmd.Flags().GetString("difficulties")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	res, err := a.coach.Suggest(ctx, coach.CompositionRequest{
		MapName:      mapName,
		EnemyTeam:    enemy,
		CurrentTeam:  team,
		Difficulties: difficulties,
	})
	if err != nil {
		return fmt.Errorf("suggesting team: %w", err)
	}

	if jsonOutput {
		return printJSON(res)
	}
	printComposition(res)
	return nil
}

func printComposition(res *coach.TeamCompositionResult) {
	fmt.Println("RECOMMENDED TEAM")
	for _, h := range res.RecommendedTeam {
		fmt.Printf("  %-8s %-16s %s\n", h.Role, h.Name, h.Reasoning)
	}
	fmt.Printf("\nCOUNTER STRATEGY\n  %s\n", res.Strategy)
	fmt.Printf("\nKEY SYNERGIES\n  %s\n", res.Synergies)
	if len(res.Alternatives) > 0 {
		fmt.Printf("\nALTERNATIVES\n  %s\n", strings.Join(res.Alternatives, ", "))
	}
	if verbose || (len(res.RecommendedTeam) > 0 && res.RecommendedTeam[0].IsSentinel()) {
		fmt.Printf("\n--- raw response ---\n%s\n", res.RawResponse)
	}
}
