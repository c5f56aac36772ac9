package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable indicates the blob backend rejected an
	// I/O operation. Assets hit by it persist with status error.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured. Vector search and embed stages are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrWatcherRunning indicates Start was called on a running watcher.
	ErrWatcherRunning = errors.New("watcher already running")

	// ErrWatcherStopped indicates the watcher has been stopped.
	ErrWatcherStopped = errors.New("watcher stopped")
)
