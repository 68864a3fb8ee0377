package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over the hero and map knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of results")
	searchCmd.Flags().String("collection", vectordb.CollectionHeroes, "collection to search: heroes or maps")
	searchCmd.Flags().String("role", "", "only heroes of this role: tank, damage, support")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit")
	collection, _ := cmd.Flags().GetString("collection")
	role, _ := cmd.Flags().GetString("role")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if collection != vectordb.CollectionHeroes && collection != vectordb.CollectionMaps {
		return fmt.Errorf("unknown collection %q (want heroes or maps)", collection)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := openVectorStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store.Count(collection) == 0 {
		fmt.Printf("The %s collection is empty. Run `overcoach ingest` first.\n", collection)
		return nil
	}

	var filter *vectordb.SearchFilter
	if role != "" {
		role = strings.ToLower(role)
		filter = &vectordb.SearchFilter{Role: &role}
	}

	results, err := store.Search(ctx, collection, args[0], limit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		return printSearchResultsJSON(results)
	}
	printSearchResultsTable(results)
	return nil
}

type searchResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	Kind       string  `json:"kind"`
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Role       string  `json:"role,omitempty"`
	Summary    string  `json:"summary"`
}

func printSearchResultsJSON(results []vectordb.SearchResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for i, r := range results {
		md := r.Document.Metadata
		out = append(out, searchResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			Kind:       string(md.Kind),
			Key:        md.Key,
			Name:       md.Name,
			Role:       md.Role,
			Summary:    truncate(r.Document.Content, 200),
		})
	}
	return printJSON(out)
}

func printSearchResultsTable(results []vectordb.SearchResult) {
	for i, r := range results {
		md := r.Document.Metadata
		label := md.Name
		if md.Role != "" {
			label += " (" + md.Role + ")"
		} else if len(md.Gamemodes) > 0 {
			label += " [" + strings.Join(md.Gamemodes, ", ") + "]"
		}
		fmt.Printf("%d. %s  %.1f%%\n", i+1, label, r.Similarity*100)
		fmt.Printf("   %s\n\n", truncate(strings.Join(strings.Fields(r.Document.Content), " "), 160))
	}
}
