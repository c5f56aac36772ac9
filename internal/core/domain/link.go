package domain

import "time"

// RelationVisuallySimilar is the relation label written by the
// multi-vector fusion stage.
const RelationVisuallySimilar = "visually_similar_to"

// LinkMetaMethod is the metadata key recording how a link was synthesized.
const LinkMetaMethod = "method"

// Link is a directed edge in the knowledge graph:
// Source -[relation]-> Target.
type Link struct {
	// ID is the unique identifier for the link.
	ID string

	// SourceID and TargetID reference assets.
	SourceID string
	TargetID string

	// Relation is the edge label.
	Relation string

	// Weight is the edge strength, e.g. a fused similarity score.
	Weight float64

	// Metadata holds edge provenance such as the synthesis method.
	Metadata map[string]any

	// CreatedAt is when the link was created.
	CreatedAt time.Time
}

// Album is a named ordered collection of assets. Albums form a tree via
// ParentID. An asset may belong to any number of albums.
type Album struct {
	// ID is the unique identifier for the album.
	ID string

	// OwnerID identifies the owning user.
	OwnerID string

	// Title is the display name.
	Title string

	// Description is optional free text.
	Description string

	// ParentID links to a parent album, empty for roots.
	ParentID string

	// CoverAssetID optionally names the cover asset.
	CoverAssetID string

	// AssetIDs is the ordered member list.
	AssetIDs []string

	// CreatedAt is when the album was created.
	CreatedAt time.Time

	// UpdatedAt is when the album was last written.
	UpdatedAt time.Time
}

// RemoveAsset deletes an asset id from the member list, preserving order.
// Returns true if the album changed.
func (al *Album) RemoveAsset(assetID string) bool {
	kept := al.AssetIDs[:0]
	removed := false
	for _, id := range al.AssetIDs {
		if id == assetID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	al.AssetIDs = kept
	if al.CoverAssetID == assetID {
		al.CoverAssetID = ""
	}
	return removed
}
