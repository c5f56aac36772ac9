// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The services here carry the state machines of the system: asset
// lifecycle, the staged enrichment pipeline, hybrid search fusion and
// the debounced filesystem watcher.
package services
