package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
)

// Ensure AlbumService implements the interface.
var _ driving.AlbumService = (*AlbumService)(nil)

// AlbumService manages named ordered collections of assets.
type AlbumService struct {
	albums driven.AlbumStore
	assets driven.AssetStore
}

// NewAlbumService creates an album service.
func NewAlbumService(albums driven.AlbumStore, assets driven.AssetStore) *AlbumService {
	return &AlbumService{albums: albums, assets: assets}
}

// Create makes a new album, optionally under a parent.
func (s *AlbumService) Create(ctx context.Context, title, ownerID, parentID string) (*domain.Album, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: empty album title", domain.ErrInvalidInput)
	}
	if parentID != "" {
		if _, err := s.albums.Get(ctx, parentID); err != nil {
			return nil, fmt.Errorf("parent album: %w", err)
		}
	}
	album := &domain.Album{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.albums.Save(ctx, album); err != nil {
		return nil, fmt.Errorf("persist album: %w", err)
	}
	return album, nil
}

// AddAsset appends an asset to the album member list if absent.
func (s *AlbumService) AddAsset(ctx context.Context, albumID, assetID string) error {
	album, err := s.albums.Get(ctx, albumID)
	if err != nil {
		return err
	}
	if _, err := s.assets.Get(ctx, assetID); err != nil {
		return fmt.Errorf("member asset: %w", err)
	}
	for _, id := range album.AssetIDs {
		if id == assetID {
			return nil
		}
	}
	album.AssetIDs = append(album.AssetIDs, assetID)
	return s.albums.Save(ctx, album)
}

// RemoveAsset removes an asset from the album member list.
func (s *AlbumService) RemoveAsset(ctx context.Context, albumID, assetID string) error {
	album, err := s.albums.Get(ctx, albumID)
	if err != nil {
		return err
	}
	if album.RemoveAsset(assetID) {
		return s.albums.Save(ctx, album)
	}
	return nil
}

// SetCover sets the album cover; the asset must be a member.
func (s *AlbumService) SetCover(ctx context.Context, albumID, assetID string) error {
	album, err := s.albums.Get(ctx, albumID)
	if err != nil {
		return err
	}
	member := false
	for _, id := range album.AssetIDs {
		if id == assetID {
			member = true
			break
		}
	}
	if !member {
		return fmt.Errorf("%w: cover must be an album member", domain.ErrInvalidInput)
	}
	album.CoverAssetID = assetID
	return s.albums.Save(ctx, album)
}

// Get retrieves an album by id.
func (s *AlbumService) Get(ctx context.Context, id string) (*domain.Album, error) {
	return s.albums.Get(ctx, id)
}

// Delete removes the album. Member assets are untouched; child albums
// are re-parented to the deleted album's parent.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	album, err := s.albums.Get(ctx, id)
	if err != nil {
		return err
	}
	children, err := s.albums.ListChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	for i := range children {
		children[i].ParentID = album.ParentID
		if err := s.albums.Save(ctx, &children[i]); err != nil {
			return fmt.Errorf("reparent album %s: %w", children[i].ID, err)
		}
	}
	return s.albums.Delete(ctx, id)
}
