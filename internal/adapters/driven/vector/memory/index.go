// Package memory provides a brute-force in-memory vector index. Each
// embedding model gets its own keyspace; search is exact cosine
// similarity over every stored point.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type point struct {
	vector  []float32
	payload map[string]string
}

// Index is an in-memory driven.VectorIndex.
type Index struct {
	mu     sync.RWMutex
	spaces map[string]map[string]point // model -> assetID -> point
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{spaces: make(map[string]map[string]point)}
}

// Upsert inserts or replaces the vector for an asset under the model.
func (x *Index) Upsert(_ context.Context, model, assetID string, vector []float32, payload map[string]string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	space, ok := x.spaces[model]
	if !ok {
		space = make(map[string]point)
		x.spaces[model] = space
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)
	pl := make(map[string]string, len(payload))
	for k, v := range payload {
		pl[k] = v
	}
	space[assetID] = point{vector: vec, payload: pl}
	return nil
}

// Search finds the k nearest points by cosine similarity. The filter's
// owner restriction is honoured via the stored payload.
func (x *Index) Search(_ context.Context, model string, query []float32, k int, filter domain.AssetFilter) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	space := x.spaces[model]
	hits := make([]driven.VectorHit, 0, len(space))
	for assetID, p := range space {
		if filter.OwnerID != "" && p.payload["owner_id"] != filter.OwnerID {
			continue
		}
		if len(filter.AssetTypes) > 0 && !containsString(filter.AssetTypes, p.payload["asset_type"]) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			AssetID: assetID,
			Score:   domain.CosineSimilarity(query, p.vector),
			Payload: p.payload,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].AssetID < hits[j].AssetID
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes an asset's vectors across all models.
func (x *Index) Delete(_ context.Context, assetID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, space := range x.spaces {
		delete(space, assetID)
	}
	return nil
}

// Close releases nothing; the index lives on the heap.
func (x *Index) Close() error { return nil }

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
