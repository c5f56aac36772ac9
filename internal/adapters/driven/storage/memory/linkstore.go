package memory

import (
	"context"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure LinkStore implements the interface.
var _ driven.LinkStore = (*LinkStore)(nil)

// LinkStore is an in-memory implementation of driven.LinkStore.
type LinkStore struct {
	mu    sync.RWMutex
	links map[string]domain.Link
}

// NewLinkStore creates a new in-memory link store.
func NewLinkStore() *LinkStore {
	return &LinkStore{links: make(map[string]domain.Link)}
}

// Save stores a link.
func (s *LinkStore) Save(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ID] = *link
	return nil
}

// Exists reports whether a (source, target, relation) tuple is present.
func (s *LinkStore) Exists(_ context.Context, sourceID, targetID, relation string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, link := range s.links {
		if link.SourceID == sourceID && link.TargetID == targetID && link.Relation == relation {
			return true, nil
		}
	}
	return false, nil
}

// ListBySource returns links originating at the asset.
func (s *LinkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Link
	for id := range s.links {
		link := s.links[id]
		if link.SourceID == sourceID {
			result = append(result, link)
		}
	}
	return result, nil
}

// Neighbors returns every link touching any of the given asset ids.
func (s *LinkStore) Neighbors(_ context.Context, assetIDs []string) ([]domain.Link, error) {
	wanted := make(map[string]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Link
	for id := range s.links {
		link := s.links[id]
		if wanted[link.SourceID] || wanted[link.TargetID] {
			result = append(result, link)
		}
	}
	return result, nil
}

// DeleteByAsset removes every link where the asset is source or target.
func (s *LinkStore) DeleteByAsset(_ context.Context, assetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, link := range s.links {
		if link.SourceID == assetID || link.TargetID == assetID {
			delete(s.links, id)
			removed++
		}
	}
	return removed, nil
}
