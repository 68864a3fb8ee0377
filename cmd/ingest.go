package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/db"
	"github.com/ziadkadry99/overcoach/internal/ingest"
	"github.com/ziadkadry99/overcoach/internal/overfast"
	"github.com/ziadkadry99/overcoach/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch hero and map data and build the knowledge base",
	Long: `Fetches heroes and maps from the OverFast API, writes one markdown document
per hero and map under the data directory, then embeds them into the heroes
and maps vector collections.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("skip-fetch", false, "index the existing markdown without calling the OverFast API")
	ingestCmd.Flags().Bool("skip-index", false, "only fetch and write markdown")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	skipFetch, _ := cmd.Flags().GetBool("skip-fetch")
	skipIndex, _ := cmd.Flags().GetBool("skip-index")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	reporter := progress.NewReporter(os.Stderr)

	if !skipFetch {
		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		gen := ingest.NewGenerator(overfast.NewClient(cfg.OverFastURL), ingest.NewStore(database), cfg.HeroesDir(), cfg.MapsDir(), logger)
		gen.SetReporter(reporter)

		res, err := gen.Run(ctx)
		if err != nil {
			return fmt.Errorf("generating knowledge documents: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d hero and %d map documents (%d changed since last run)\n",
			len(res.HeroFiles), len(res.MapFiles), res.Changed)
		if len(res.Failed) > 0 {
			fmt.Fprintln(os.Stderr, failureSummary(res.Failed))
		}
	}

	if skipIndex {
		return nil
	}

	store, err := openVectorStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ix := ingest.NewIndexer(store, logger)
	ix.SetReporter(reporter)
	res, err := ix.IndexDir(ctx, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", cfg.DataDir, err)
	}

	if err := store.Persist(ctx, cfg.VectorDBDir()); err != nil {
		return fmt.Errorf("persisting vector store: %w", err)
	}

	logger.Info("ingestion complete",
		zap.Int("heroes", res.Heroes),
		zap.Int("maps", res.Maps),
		zap.Duration("index_duration", res.Duration),
		zap.Duration("total_duration", time.Since(start)),
	)
	fmt.Fprintf(os.Stderr, "Indexed %d heroes and %d maps into %s\n", res.Heroes, res.Maps, cfg.VectorDBDir())
	return nil
}

// failureSummary reports hero and map documents that could not be generated.
// Entries are "kind:key".
func failureSummary(failed []string) string {
	return fmt.Sprintf("Warning: %d documents could not be generated: %s", len(failed), strings.Join(failed, ", "))
}
