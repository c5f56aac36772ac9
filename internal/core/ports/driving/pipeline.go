package driving

import "context"

// PipelineRunner executes the enrichment pipeline.
type PipelineRunner interface {
	// Run executes every applicable stage for the asset, strictly in
	// registration order. Stage failures are recorded on the asset and
	// skipped over; the terminal status is ready or partial.
	Run(ctx context.Context, assetID string) error

	// Consume drains ingest signals until the context is cancelled or
	// the bus closes, running the pipeline for each signalled asset.
	Consume(ctx context.Context) error
}

// Watcher bridges filesystem notifications to the asset service.
type Watcher interface {
	// Start registers the watch roots, begins OS-level monitoring and
	// spawns the consumer.
	Start(ctx context.Context) error

	// Stop halts monitoring, cancels pending debounce timers and joins
	// the background machinery before returning.
	Stop() error
}

// Reconciler drives the same lifecycle calls as the watcher by walking
// watch roots, compensating for notifications lost while the process
// was down.
type Reconciler interface {
	// Reconcile performs one full pass over every watch root.
	Reconcile(ctx context.Context) error
}
