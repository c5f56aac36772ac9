package driven

import (
	"context"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// AssetStore persists assets and answers the catalog queries the core
// needs: identity lookups for dedup, filtered listings, the keyword
// search channel and facet aggregation.
type AssetStore interface {
	// Save stores or updates an asset.
	Save(ctx context.Context, asset *domain.Asset) error

	// Get retrieves an asset by id. Returns domain.ErrNotFound when
	// the id is unknown.
	Get(ctx context.Context, id string) (*domain.Asset, error)

	// GetByHash retrieves the live asset with the given content hash.
	GetByHash(ctx context.Context, hash string) (*domain.Asset, error)

	// GetByURN retrieves the asset stored at the given locator.
	GetByURN(ctx context.Context, urn string) (*domain.Asset, error)

	// Delete removes the asset record.
	Delete(ctx context.Context, id string) error

	// List returns filtered assets sorted by recency, newest first.
	// A limit of zero means no limit.
	List(ctx context.Context, filter domain.AssetFilter, limit int) ([]domain.Asset, error)

	// ListByURNPrefix returns assets whose locator starts with prefix.
	// Used by reconciliation over "fs://local/" entries.
	ListByURNPrefix(ctx context.Context, prefix string) ([]domain.Asset, error)

	// SearchText runs the keyword channel: a ranked id list matching
	// the query over filename, title, description, tags, ai tags and
	// caption, honouring the structured filter.
	SearchText(ctx context.Context, query string, filter domain.AssetFilter, limit int) ([]string, error)

	// Count returns the number of assets matching the filter.
	Count(ctx context.Context, filter domain.AssetFilter) (int, error)

	// Facets groups the filtered set by asset type and tag, returning
	// the top buckets per field by descending count.
	Facets(ctx context.Context, filter domain.AssetFilter) (*domain.SearchFacets, error)
}

// LinkStore persists knowledge-graph edges.
type LinkStore interface {
	// Save stores a link.
	Save(ctx context.Context, link *domain.Link) error

	// Exists reports whether a link with the same
	// (source, target, relation) tuple is already present.
	Exists(ctx context.Context, sourceID, targetID, relation string) (bool, error)

	// ListBySource returns links originating at the asset.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Link, error)

	// Neighbors returns every link touching any of the given asset
	// ids, in either direction.
	Neighbors(ctx context.Context, assetIDs []string) ([]domain.Link, error)

	// DeleteByAsset removes every link where the asset is source or
	// target. Returns the number removed.
	DeleteByAsset(ctx context.Context, assetID string) (int, error)
}

// AlbumStore persists named ordered collections.
type AlbumStore interface {
	// Save stores or updates an album.
	Save(ctx context.Context, album *domain.Album) error

	// Get retrieves an album by id.
	Get(ctx context.Context, id string) (*domain.Album, error)

	// Delete removes an album. Member assets are untouched.
	Delete(ctx context.Context, id string) error

	// List returns albums for an owner; empty owner means all.
	List(ctx context.Context, ownerID string) ([]domain.Album, error)

	// ListByAsset returns albums containing the asset.
	ListByAsset(ctx context.Context, assetID string) ([]domain.Album, error)

	// ListChildren returns albums whose parent is the given album.
	ListChildren(ctx context.Context, parentID string) ([]domain.Album, error)
}
