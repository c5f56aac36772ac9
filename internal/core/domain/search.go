package domain

// Names of the search channels contributing to a fused result.
const (
	ChannelKeyword = "keyword"
	ChannelVector  = "vector"
	ChannelGraph   = "graph"
)

// SearchRequest configures a unified search query.
type SearchRequest struct {
	// Query is the free-text query. Empty means a filtered listing
	// sorted by recency.
	Query string

	// Filter is the structured filter applied to every channel.
	Filter AssetFilter

	// Limit is the page size. Defaults to 50 when zero.
	Limit int

	// IncludeFacets requests facet buckets alongside the page.
	IncludeFacets bool
}

// SearchHit is a single ranked result.
type SearchHit struct {
	// AssetID identifies the matched asset.
	AssetID string

	// Score is the fused relevance score.
	Score float64

	// MatchedBy lists the channels that ranked this asset,
	// e.g. ["keyword", "vector"].
	MatchedBy []string
}

// FacetBucket is one value of an array-valued field with its count.
type FacetBucket struct {
	Value string
	Count int
}

// SearchFacets groups the filtered set by array-valued fields.
type SearchFacets struct {
	// AssetTypes buckets by declared type label.
	AssetTypes []FacetBucket

	// Tags buckets by user tag.
	Tags []FacetBucket
}

// SearchPage is one page of fused results. Continuation beyond the
// first page is not implemented.
type SearchPage struct {
	// Items is the ranked page.
	Items []SearchHit

	// Facets is present when the request asked for them.
	Facets *SearchFacets

	// TotalEstimate is the size of the fused candidate set before
	// slicing, not an exact corpus count.
	TotalEstimate int
}
