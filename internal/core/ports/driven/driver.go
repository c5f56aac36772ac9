package driven

import (
	"context"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// Driver extracts technical metadata for one asset type. Drivers are
// synchronous leaf adapters: they may block on disk, CPU or external
// tools, so the driver manager runs them on a worker pool.
type Driver interface {
	// TypeID is the asset type this driver processes,
	// e.g. "image", "video", "audio", "document".
	TypeID() string

	// ExtractMetadata reads the file at localPath and returns a
	// metadata map. The result is stored under the type namespace in
	// asset.Metadata. An error is recorded there too, never raised
	// past the driver manager.
	ExtractMetadata(ctx context.Context, asset *domain.Asset, localPath string) (map[string]any, error)
}

// PipelineStage is one enrichment step. Stages mutate the asset in
// place and run strictly in registration order; a failing stage is
// recorded and skipped over, never fatal to the run.
type PipelineStage interface {
	// Name identifies the stage in pipeline_errors.
	Name() string

	// AppliesTo lists the primary types the stage handles.
	AppliesTo() []string

	// Process enriches the asset. A stage missing its prerequisites
	// (e.g. an upstream embedding) must return nil, not an error.
	Process(ctx context.Context, asset *domain.Asset) error
}

// IngestBus hands freshly persisted asset ids from ingestion to the
// pipeline orchestrator. Delivery is at-least-once, in-process and
// non-durable: a crash between persist and pickup loses the signal.
type IngestBus interface {
	// Publish enqueues a signal, blocking when the buffer is full.
	Publish(ctx context.Context, sig domain.IngestSignal) error

	// Signals returns the consumer channel. The bus closes it on Close.
	Signals() <-chan domain.IngestSignal

	// Close stops the bus. Publish after Close returns an error.
	Close() error
}
