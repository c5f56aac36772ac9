package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// AssetStore is an in-memory implementation of driven.AssetStore.
// Filtering goes through domain.AssetFilter.Matches, so this store is
// the reference the sqlite translation is tested against.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[string]domain.Asset
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{assets: make(map[string]domain.Asset)}
}

// Save stores or updates an asset.
func (s *AssetStore) Save(_ context.Context, asset *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.ID] = *asset
	return nil
}

// Get retrieves an asset by ID.
func (s *AssetStore) Get(_ context.Context, id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &asset, nil
}

// GetByHash retrieves the asset with the given content hash. With
// several matches the oldest record wins, matching the sqlite store's
// created_at ordering.
func (s *AssetStore) GetByHash(_ context.Context, hash string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var oldest *domain.Asset
	for id := range s.assets {
		asset := s.assets[id]
		if asset.Hash != hash {
			continue
		}
		if oldest == nil || asset.CreatedAt.Before(oldest.CreatedAt) {
			copied := asset
			oldest = &copied
		}
	}
	if oldest == nil {
		return nil, domain.ErrNotFound
	}
	return oldest, nil
}

// GetByURN retrieves the asset stored at the given locator.
func (s *AssetStore) GetByURN(_ context.Context, urn string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.assets {
		asset := s.assets[id]
		if asset.StorageURN == urn {
			return &asset, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes the asset record.
func (s *AssetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, id)
	return nil
}

// List returns filtered assets sorted by recency, newest first.
func (s *AssetStore) List(_ context.Context, filter domain.AssetFilter, limit int) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := s.filtered(filter)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListByURNPrefix returns assets whose locator starts with prefix.
func (s *AssetStore) ListByURNPrefix(_ context.Context, prefix string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Asset
	for id := range s.assets {
		asset := s.assets[id]
		if strings.HasPrefix(asset.StorageURN, prefix) {
			result = append(result, asset)
		}
	}
	return result, nil
}

// SearchText ranks filtered assets by how many query terms their text
// fields contain, case-insensitive. Ties break by recency.
func (s *AssetStore) SearchText(_ context.Context, query string, filter domain.AssetFilter, limit int) ([]string, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		asset domain.Asset
		score int
	}
	var hits []scored
	for _, asset := range s.filtered(filter) {
		text := searchableText(&asset)
		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{asset: asset, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].asset.CreatedAt.After(hits[j].asset.CreatedAt)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.asset.ID
	}
	return ids, nil
}

// Count returns the number of assets matching the filter.
func (s *AssetStore) Count(_ context.Context, filter domain.AssetFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filtered(filter)), nil
}

// Facets groups the filtered set by asset type and tag.
func (s *AssetStore) Facets(_ context.Context, filter domain.AssetFilter) (*domain.SearchFacets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make(map[string]int)
	tags := make(map[string]int)
	for _, asset := range s.filtered(filter) {
		types[asset.PrimaryType()]++
		for _, tag := range asset.Tags {
			tags[tag]++
		}
	}
	return &domain.SearchFacets{
		AssetTypes: topBuckets(types, 10),
		Tags:       topBuckets(tags, 10),
	}, nil
}

// filtered returns copies of every asset the filter matches. Callers
// must hold at least the read lock.
func (s *AssetStore) filtered(filter domain.AssetFilter) []domain.Asset {
	var result []domain.Asset
	for id := range s.assets {
		asset := s.assets[id]
		if filter.Matches(&asset) {
			result = append(result, asset)
		}
	}
	return result
}

func searchableText(a *domain.Asset) string {
	parts := []string{a.Filename, a.Title, a.Description, a.AICaption}
	parts = append(parts, a.Tags...)
	for _, t := range a.AITags {
		parts = append(parts, t.Label)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func topBuckets(counts map[string]int, n int) []domain.FacetBucket {
	buckets := make([]domain.FacetBucket, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, domain.FacetBucket{Value: value, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}
