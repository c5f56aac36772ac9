package driving

import (
	"context"
	"io"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// AssetService manages file identity, deduplication and lifecycle.
type AssetService interface {
	// Ingest streams a new binary payload into managed storage and
	// indexes it. Byte-identical content collapses to the existing
	// asset: at most one record per hash, repeat calls are no-ops.
	Ingest(ctx context.Context, content io.Reader, filename, ownerID string) (*domain.Asset, error)

	// RegisterPath indexes a file discovered on a watched filesystem
	// without moving it. Idempotent per path.
	RegisterPath(ctx context.Context, path, ownerID string) (*domain.Asset, error)

	// RefreshAsset re-hashes a registered file and re-arms enrichment.
	RefreshAsset(ctx context.Context, path string) error

	// UpdateStorageURN rewrites locator and filename after a move,
	// preserving identity, links and album membership.
	UpdateStorageURN(ctx context.Context, oldPath, newPath string) error

	// MarkMissing flags the asset at the path as missing without
	// deleting it. Reversible by a later refresh.
	MarkMissing(ctx context.Context, path string) error

	// Get retrieves an asset by id.
	Get(ctx context.Context, id string) (*domain.Asset, error)

	// Delete removes the asset, every link touching it and its album
	// memberships. No dangling references survive.
	Delete(ctx context.Context, id string) error
}

// AlbumService manages named ordered collections.
type AlbumService interface {
	// Create makes a new album, optionally under a parent.
	Create(ctx context.Context, title, ownerID, parentID string) (*domain.Album, error)

	// AddAsset appends an asset to the album if not already a member.
	AddAsset(ctx context.Context, albumID, assetID string) error

	// RemoveAsset removes an asset from the album.
	RemoveAsset(ctx context.Context, albumID, assetID string) error

	// SetCover sets the cover asset; it must be a member.
	SetCover(ctx context.Context, albumID, assetID string) error

	// Get retrieves an album by id.
	Get(ctx context.Context, id string) (*domain.Album, error)

	// Delete removes the album; member assets are untouched.
	Delete(ctx context.Context, id string) error
}
