package driving

import (
	"context"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// SearchService provides hybrid search over the asset catalog.
type SearchService interface {
	// Search fuses the keyword, vector and graph channels into one
	// ranked page. Without query text it returns a filtered listing
	// sorted by recency.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPage, error)
}
