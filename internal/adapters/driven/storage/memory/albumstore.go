package memory

import (
	"context"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure AlbumStore implements the interface.
var _ driven.AlbumStore = (*AlbumStore)(nil)

// AlbumStore is an in-memory implementation of driven.AlbumStore.
type AlbumStore struct {
	mu     sync.RWMutex
	albums map[string]domain.Album
}

// NewAlbumStore creates a new in-memory album store.
func NewAlbumStore() *AlbumStore {
	return &AlbumStore{albums: make(map[string]domain.Album)}
}

// Save stores or updates an album.
func (s *AlbumStore) Save(_ context.Context, album *domain.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums[album.ID] = *album
	return nil
}

// Get retrieves an album by ID.
func (s *AlbumStore) Get(_ context.Context, id string) (*domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	album, ok := s.albums[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &album, nil
}

// Delete removes an album.
func (s *AlbumStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.albums, id)
	return nil
}

// List returns albums for an owner; empty owner means all.
func (s *AlbumStore) List(_ context.Context, ownerID string) ([]domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Album
	for id := range s.albums {
		album := s.albums[id]
		if ownerID == "" || album.OwnerID == ownerID {
			result = append(result, album)
		}
	}
	return result, nil
}

// ListByAsset returns albums containing the asset.
func (s *AlbumStore) ListByAsset(_ context.Context, assetID string) ([]domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Album
	for id := range s.albums {
		album := s.albums[id]
		for _, member := range album.AssetIDs {
			if member == assetID {
				result = append(result, album)
				break
			}
		}
	}
	return result, nil
}

// ListChildren returns albums whose parent is the given album.
func (s *AlbumStore) ListChildren(_ context.Context, parentID string) ([]domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Album
	for id := range s.albums {
		album := s.albums[id]
		if album.ParentID == parentID {
			result = append(result, album)
		}
	}
	return result, nil
}
