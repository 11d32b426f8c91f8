package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfwise/crawler/internal/api"
	"github.com/shelfwise/crawler/internal/scheduler"
	"github.com/shelfwise/crawler/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, worker pool and rescrape schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := worker.NewConsumer(a.workerConfig(), a.taskQueue, a.orchestrator, log)
			if err != nil {
				return err
			}

			if a.indexer != nil {
				if ensureErr := a.indexer.EnsureIndex(ctx); ensureErr != nil {
					log.Warn("search index unavailable", "error", ensureErr)
				}
			}

			var rescraper *scheduler.Rescraper
			if cfg.Rescrape.Enabled {
				rescraper = scheduler.NewRescraper(
					scheduler.Config{Schedule: cfg.Rescrape.Schedule, TTL: cfg.Rescrape.TTL},
					a.navigations,
					a.products,
					a.orchestrator,
					log,
				)
				if startErr := rescraper.Start(ctx); startErr != nil {
					return startErr
				}
				defer rescraper.Stop()
			}

			server := api.NewServer(cfg.Server, api.SetupRouter(log, a.handlers()), log)

			errCh := make(chan error, 2)
			go func() {
				errCh <- consumer.Run(ctx)
			}()
			go func() {
				errCh <- server.Start()
			}()

			select {
			case <-ctx.Done():
				log.Info("shutdown signal received")
			case err = <-errCh:
				if err != nil {
					log.Error("component failed", "error", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
				err = errors.Join(err, shutdownErr)
			}

			// Closing the queue ends the consumer loop; it drains through
			// its own drain timeout.
			a.taskQueue.Close()
			<-errCh

			return err
		},
	}
}
