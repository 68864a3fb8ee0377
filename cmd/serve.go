package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/db"
	"github.com/ziadkadry99/overcoach/internal/ingest"
	"github.com/ziadkadry99/overcoach/internal/llm"
	"github.com/ziadkadry99/overcoach/internal/overfast"
	"github.com/ziadkadry99/overcoach/internal/server"
	"github.com/ziadkadry99/overcoach/internal/vectordb"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the overcoach HTTP API: team suggestions, hero counters, hero and map listings, knowledge documents and a websocket coaching session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := setup(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		port := a.cfg.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		database, err := db.Open(a.cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		deps := server.Deps{
			Coach:        a.coach,
			Catalog:      overfast.NewClient(a.cfg.OverFastURL),
			Index:        vectordb.NewKnowledgeBase(a.store),
			Runs:         ingest.NewStore(database),
			ProviderName: string(a.name),
			Logger:       a.logger,
		}
		if p, ok := a.provider.(llm.Pinger); ok {
			deps.Pinger = p
		}

		srv := server.New(server.Config{
			Port:           port,
			DataDir:        a.cfg.DataDir,
			AllowAll:       serveAllowAll,
			RequestTimeout: a.cfg.CompletionTimeout() + 30*time.Second,
		}, deps)

		go func() {
			<-ctx.Done()
			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("server shutdown", zap.Error(err))
			}
		}()

		a.logger.Info("overcoach server starting",
			zap.String("version", Version),
			zap.Int("port", port),
			zap.String("provider", string(a.name)),
			zap.String("database", database.Path()),
			zap.Int("heroes_indexed", a.store.Count(vectordb.CollectionHeroes)),
			zap.Int("maps_indexed", a.store.Count(vectordb.CollectionMaps)),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", true, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}
