// Package cli is the cobra command surface. Commands call the driving
// ports; construction of services happens in the composition root and
// arrives through Configure.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Services injected by Configure.
var (
	assetService  driving.AssetService
	albumService  driving.AlbumService
	searchService driving.SearchService
	pipeline      driving.PipelineRunner
	watcher       driving.Watcher
	reconciler    driving.Reconciler

	reconcileInterval time.Duration
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "damd",
	Short: "Digital asset management daemon",
	Long: `damd manages a content-addressed asset catalog: ingestion with
deduplication, AI enrichment, hybrid search and filesystem watching.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Deps carries everything the commands need.
type Deps struct {
	Version           string
	Assets            driving.AssetService
	Albums            driving.AlbumService
	Search            driving.SearchService
	Pipeline          driving.PipelineRunner
	Watcher           driving.Watcher
	Reconciler        driving.Reconciler
	ReconcileInterval time.Duration
}

// Configure injects the constructed services.
func Configure(deps Deps) {
	if deps.Version != "" {
		version = deps.Version
	}
	assetService = deps.Assets
	albumService = deps.Albums
	searchService = deps.Search
	pipeline = deps.Pipeline
	watcher = deps.Watcher
	reconciler = deps.Reconciler
	reconcileInterval = deps.ReconcileInterval
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
