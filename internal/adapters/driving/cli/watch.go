package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sanali209/webos-dam/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configured roots and run the pipeline",
	Long: `Starts the filesystem watcher, the enrichment pipeline consumer and a
periodic reconciliation pass, then blocks until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watcher == nil || pipeline == nil {
		return errors.New("watcher not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go pipeline.Consume(ctx)

	if err := watcher.Start(ctx); err != nil {
		return err
	}

	// Reconcile once on startup to pick up files changed while the
	// daemon was down, then on a timer.
	if reconciler != nil {
		go func() {
			if err := reconciler.Reconcile(ctx); err != nil {
				logger.Warn("reconcile: %v", err)
			}

			interval := reconcileInterval
			if interval <= 0 {
				interval = 30 * time.Minute
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := reconciler.Reconcile(ctx); err != nil {
						logger.Warn("reconcile: %v", err)
					}
				}
			}
		}()
	}

	cmd.Println("watching; press Ctrl-C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	cancel()
	return watcher.Stop()
}
