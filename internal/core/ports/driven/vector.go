package driven

import (
	"context"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// VectorIndex provides semantic similarity search, keyed separately per
// embedding-model name. The index stores an opaque payload alongside
// each point; the core uses it for owner filtering and id recovery.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for an asset under the
	// given model name.
	Upsert(ctx context.Context, model, assetID string, vector []float32, payload map[string]string) error

	// Search finds the k nearest neighbours to the query vector in
	// the model's space, honouring the filter.
	Search(ctx context.Context, model string, query []float32, k int, filter domain.AssetFilter) ([]VectorHit, error)

	// Delete removes an asset's vectors across all models.
	Delete(ctx context.Context, assetID string) error

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// AssetID is the matched asset.
	AssetID string

	// Score is the cosine similarity (0-1).
	Score float64

	// Payload is the stored metadata for the point.
	Payload map[string]string
}
