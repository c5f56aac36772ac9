// damd is the digital asset management daemon and CLI. All wiring is
// explicit: adapters are constructed here and injected into the core
// services, which never reach for globals.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sanali209/webos-dam/internal/adapters/driven/blob/fs"
	"github.com/Sanali209/webos-dam/internal/adapters/driven/bus"
	configfile "github.com/Sanali209/webos-dam/internal/adapters/driven/config/file"
	"github.com/Sanali209/webos-dam/internal/adapters/driven/inference/openai"
	"github.com/Sanali209/webos-dam/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/Sanali209/webos-dam/internal/adapters/driven/vector/memory"
	"github.com/Sanali209/webos-dam/internal/adapters/driving/cli"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/services"
	"github.com/Sanali209/webos-dam/internal/drivers/audio"
	"github.com/Sanali209/webos-dam/internal/drivers/document"
	"github.com/Sanali209/webos-dam/internal/drivers/image"
	"github.com/Sanali209/webos-dam/internal/drivers/video"
	"github.com/Sanali209/webos-dam/internal/logger"
	"github.com/Sanali209/webos-dam/internal/stages"
)

// version is stamped by the build.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "damd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	settings := configfile.LoadSettings(configStore)

	catalog, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer catalog.Close()

	assetStore := catalog.AssetStore()
	linkStore := catalog.LinkStore()
	albumStore := catalog.AlbumStore()

	blobs := fs.NewStore(filepath.Join(settings.DataDir, "blobs"))
	vectors := vectormem.NewIndex()
	defer vectors.Close()

	signals := bus.NewChannel(0)
	defer signals.Close()

	// Query embedding is optional; without an endpoint the vector
	// search channel degrades away.
	var embedder driven.Embedder
	if settings.EmbeddingBaseURL != "" {
		embedder, err = openai.NewEmbedder(openai.Config{
			BaseURL: settings.EmbeddingBaseURL,
			Token:   settings.EmbeddingToken,
			Model:   settings.EmbeddingModel,
		})
		if err != nil {
			return fmt.Errorf("embedder: %w", err)
		}
	} else {
		logger.Debug("no embedding endpoint configured, vector channel disabled")
	}

	types := services.NewBuiltinTypeRegistry()

	drivers, err := services.NewDriverManager(settings.Workers)
	if err != nil {
		return fmt.Errorf("driver manager: %w", err)
	}
	defer drivers.Close()
	drivers.Register(image.New())
	drivers.Register(video.New())
	drivers.Register(audio.New())
	drivers.Register(document.New())

	assets := services.NewAssetService(assetStore, linkStore, albumStore, blobs, types, signals, vectors)
	albums := services.NewAlbumService(albumStore, assetStore)

	pipeline := services.NewPipelineOrchestrator(assetStore, drivers, blobs, signals)
	pipeline.RegisterStage(stages.NewThumbnail(blobs, filepath.Join(settings.DataDir, "thumbnails"), nil))
	pipeline.RegisterStage(stages.NewSemanticEmbed(blobs, embedder, vectors))
	pipeline.RegisterStage(stages.NewCaption(blobs, nil))
	pipeline.RegisterStage(stages.NewTagging(blobs, nil))
	pipeline.RegisterStage(stages.NewDetection(blobs, nil))
	pipeline.RegisterStage(stages.NewStructuralEmbed(blobs, nil))
	pipeline.RegisterStage(stages.NewRelationFusion(assetStore, linkStore, vectors,
		settings.FusionThreshold, settings.FusionTopK))

	search := services.NewUnifiedSearchService(assetStore, linkStore, vectors, embedder, settings.RRFK)

	watcher := services.NewFileWatcher(assets, settings.Owner, settings.WatchRoots,
		settings.IgnorePatterns, settings.Debounce)
	reconciler := services.NewCatalogReconciler(assets, assetStore, settings.Owner,
		settings.WatchRoots, settings.ReconcileStatsPerSecond)

	cli.Configure(cli.Deps{
		Version:           version,
		Assets:            assets,
		Albums:            albums,
		Search:            search,
		Pipeline:          pipeline,
		Watcher:           watcher,
		Reconciler:        reconciler,
		ReconcileInterval: settings.ReconcileInterval,
	})
	return cli.Execute()
}
