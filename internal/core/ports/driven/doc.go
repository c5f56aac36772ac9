// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - BlobStore: Byte read/write addressed by opaque locator strings
//   - AssetStore / LinkStore / AlbumStore: Catalog persistence and query
//   - IngestBus: Hands freshly persisted asset ids to the pipeline
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Per-model vector storage/search. Without it the
//     vector channel and the relation stage are disabled.
//   - Embedder / Captioner / Tagger / Detector: External inference
//     providers. A missing provider disables its stage only.
//   - PathResolver: Maps a locator to a local path for drivers.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, driver, or stage package
package driven
