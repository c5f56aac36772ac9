package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure UnifiedSearchService implements the interface.
var _ driving.SearchService = (*UnifiedSearchService)(nil)

// rrfK is the default Reciprocal Rank Fusion constant. It dampens the
// dominance of top ranks.
const rrfK = 60

// seedsPerChannel is how many top hits from each primary channel seed
// the graph expansion.
const seedsPerChannel = 10

// UnifiedSearchService fuses the keyword, vector and graph channels
// into one ranked page using Reciprocal Rank Fusion. The vector channel
// needs the embedder and the vector index; either being nil degrades
// the search to the remaining channels rather than failing it.
type UnifiedSearchService struct {
	assets   driven.AssetStore
	links    driven.LinkStore
	vectors  driven.VectorIndex // optional
	embedder driven.Embedder    // optional, clip text encoder
	k        int
}

// NewUnifiedSearchService creates a search service. k <= 0 selects the
// default RRF constant of 60.
func NewUnifiedSearchService(
	assets driven.AssetStore,
	links driven.LinkStore,
	vectors driven.VectorIndex,
	embedder driven.Embedder,
	k int,
) *UnifiedSearchService {
	if k <= 0 {
		k = rrfK
	}
	return &UnifiedSearchService{
		assets:   assets,
		links:    links,
		vectors:  vectors,
		embedder: embedder,
		k:        k,
	}
}

// Search executes hybrid search and returns the first page of fused
// results. Continuation beyond the first page is not implemented.
func (s *UnifiedSearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPage, error) {
	logger.Section("Search Execution")

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return s.listFiltered(ctx, req, limit)
	}
	logger.Debug("query: %q, limit: %d", query, limit)

	// Primary channels run concurrently, each over-fetching 2x the
	// page so fusion has room to work. A failed channel degrades to
	// empty rather than failing the search.
	var keywordIDs, vectorIDs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.assets.SearchText(gctx, query, req.Filter, limit*2)
		if err != nil {
			logger.Warn("search: keyword channel failed: %v", err)
			return nil
		}
		keywordIDs = ids
		return nil
	})
	g.Go(func() error {
		ids, err := s.vectorChannel(gctx, query, req.Filter, limit*2)
		if err != nil {
			logger.Warn("search: vector channel failed: %v", err)
			return nil
		}
		vectorIDs = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}
	logger.Debug("keyword hits: %d, vector hits: %d", len(keywordIDs), len(vectorIDs))

	// Graph expansion: 1-hop neighbours of the top seeds from each
	// primary channel, excluding the seeds themselves.
	seeds := make([]string, 0, 2*seedsPerChannel)
	seeds = append(seeds, topN(keywordIDs, seedsPerChannel)...)
	seeds = append(seeds, topN(vectorIDs, seedsPerChannel)...)
	seeds = dedupe(seeds)
	var graphIDs []string
	if len(seeds) > 0 {
		ids, err := s.graphChannel(ctx, seeds)
		if err != nil {
			logger.Warn("search: graph channel failed: %v", err)
		} else {
			graphIDs = ids
		}
	}
	logger.Debug("graph hits: %d", len(graphIDs))

	page := s.fuse(limit, channelList{
		{name: domain.ChannelKeyword, ids: keywordIDs},
		{name: domain.ChannelVector, ids: vectorIDs},
		{name: domain.ChannelGraph, ids: graphIDs},
	})

	if req.IncludeFacets {
		facets, err := s.assets.Facets(ctx, req.Filter)
		if err != nil {
			logger.Warn("search: facets failed: %v", err)
		} else {
			page.Facets = facets
		}
	}
	return page, nil
}

type rankedChannel struct {
	name string
	ids  []string
}

type channelList []rankedChannel

// fuse applies the RRF law: each id at zero-based rank r in a channel
// contributes 1/(k+r+1); the total is the sum across channels. Sorting
// is stable so ties break by first appearance order.
func (s *UnifiedSearchService) fuse(limit int, channels channelList) *domain.SearchPage {
	scores := make(map[string]float64)
	matchedBy := make(map[string][]string)
	var order []string

	for _, ch := range channels {
		for rank, id := range ch.ids {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(s.k+rank+1)
			matchedBy[id] = append(matchedBy[id], ch.name)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	total := len(order)
	if len(order) > limit {
		order = order[:limit]
	}

	items := make([]domain.SearchHit, len(order))
	for i, id := range order {
		items[i] = domain.SearchHit{
			AssetID:   id,
			Score:     scores[id],
			MatchedBy: matchedBy[id],
		}
	}
	return &domain.SearchPage{Items: items, TotalEstimate: total}
}

// vectorChannel encodes the query text and searches the clip space.
func (s *UnifiedSearchService) vectorChannel(ctx context.Context, query string, filter domain.AssetFilter, limit int) ([]string, error) {
	if s.vectors == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, domain.VectorCLIP, vec, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.AssetID
	}
	return ids, nil
}

// graphChannel returns the 1-hop neighbours of the seeds via links in
// either direction, excluding the seeds themselves.
func (s *UnifiedSearchService) graphChannel(ctx context.Context, seeds []string) ([]string, error) {
	links, err := s.links.Neighbors(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("graph neighbours: %w", err)
	}

	isSeed := make(map[string]bool, len(seeds))
	for _, id := range seeds {
		isSeed[id] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, l := range links {
		neighbour := l.TargetID
		if isSeed[l.TargetID] {
			neighbour = l.SourceID
		}
		if isSeed[neighbour] || seen[neighbour] {
			continue
		}
		seen[neighbour] = true
		out = append(out, neighbour)
	}
	return out, nil
}

// listFiltered is the no-query path: a filtered listing sorted by
// recency, each hit scored 1.0.
func (s *UnifiedSearchService) listFiltered(ctx context.Context, req domain.SearchRequest, limit int) (*domain.SearchPage, error) {
	assets, err := s.assets.List(ctx, req.Filter, limit)
	if err != nil {
		return nil, fmt.Errorf("filtered listing: %w", err)
	}

	items := make([]domain.SearchHit, len(assets))
	for i := range assets {
		items[i] = domain.SearchHit{AssetID: assets[i].ID, Score: 1.0}
	}

	total, err := s.assets.Count(ctx, req.Filter)
	if err != nil {
		logger.Warn("search: count failed: %v", err)
		total = len(items)
	}

	page := &domain.SearchPage{Items: items, TotalEstimate: total}
	if req.IncludeFacets {
		facets, err := s.assets.Facets(ctx, req.Filter)
		if err != nil {
			logger.Warn("search: facets failed: %v", err)
		} else {
			page.Facets = facets
		}
	}
	return page, nil
}

func topN(ids []string, n int) []string {
	if len(ids) < n {
		n = len(ids)
	}
	return ids[:n]
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
