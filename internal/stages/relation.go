package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*RelationFusion)(nil)

// Fusion weights over the three embedding spaces. The semantic space
// dominates, structure breaks near-ties.
const (
	fusionWeightCLIP      = 0.5
	fusionWeightBLIP      = 0.3
	fusionWeightMobileNet = 0.2
)

// DefaultFusionThreshold is the minimum fused score for a link.
const DefaultFusionThreshold = 0.85

// DefaultFusionTopK sizes the candidate recall; the index is queried
// for three times this many neighbours and every hit is re-scored.
const DefaultFusionTopK = 10

// linkMethodFusion marks links produced by this stage.
const linkMethodFusion = "multi_vector_fusion"

// RelationFusion synthesizes "visually_similar_to" edges by fusing
// similarity across the clip, blip and mobilenet spaces. Candidates are
// over-fetched from the clip index, then re-scored with the weighted
// fusion; only pairs clearing the threshold become links.
//
// The exists-then-save guard is not atomic: two concurrent runs over
// the same pair can both pass the check and write duplicate edges. The
// pipeline's per-asset serialisation makes this harmless in practice.
type RelationFusion struct {
	assets    driven.AssetStore
	links     driven.LinkStore
	index     driven.VectorIndex
	threshold float64
	topK      int
}

// NewRelationFusion creates the stage. threshold <= 0 and topK <= 0
// select the defaults.
func NewRelationFusion(assets driven.AssetStore, links driven.LinkStore, index driven.VectorIndex, threshold float64, topK int) *RelationFusion {
	if threshold <= 0 {
		threshold = DefaultFusionThreshold
	}
	if topK <= 0 {
		topK = DefaultFusionTopK
	}
	return &RelationFusion{
		assets:    assets,
		links:     links,
		index:     index,
		threshold: threshold,
		topK:      topK,
	}
}

func (s *RelationFusion) Name() string { return "relation_fusion" }

func (s *RelationFusion) AppliesTo() []string { return []string{"image"} }

// Process links the asset to its visually similar neighbours. All three
// vectors must be present on the asset; otherwise the stage skips
// without error, since upstream stages may have failed in isolation.
func (s *RelationFusion) Process(ctx context.Context, asset *domain.Asset) error {
	clip := asset.Vectors[domain.VectorCLIP]
	blip := asset.Vectors[domain.VectorBLIP]
	mobile := asset.Vectors[domain.VectorMobileNet]
	if len(clip) == 0 || len(blip) == 0 || len(mobile) == 0 {
		logger.Debug("relation_fusion: %s lacks one or more vectors, skipping", asset.ID)
		return nil
	}
	if s.index == nil {
		logger.Debug("relation_fusion: no vector index configured, skipping %s", asset.ID)
		return nil
	}

	// Over-fetch so candidates that score well only in the fused
	// metric survive the clip-only recall step.
	hits, err := s.index.Search(ctx, domain.VectorCLIP, clip, s.topK*3, domain.AssetFilter{})
	if err != nil {
		return fmt.Errorf("candidate search: %w", err)
	}

	linked := 0
	for _, hit := range hits {
		if hit.AssetID == asset.ID {
			continue
		}

		candidate, err := s.assets.Get(ctx, hit.AssetID)
		if err != nil {
			logger.Debug("relation_fusion: candidate %s: %v", hit.AssetID, err)
			continue
		}

		score := s.fusedScore(asset, candidate)
		if score < s.threshold {
			continue
		}

		created, err := s.link(ctx, asset.ID, candidate.ID, score)
		if err != nil {
			return err
		}
		if created {
			linked++
		}
	}

	if linked > 0 {
		logger.Info("relation_fusion: %s linked to %d similar asset(s)", asset.ID, linked)
	}
	return nil
}

// fusedScore combines per-space cosine similarities with the fixed
// weights. A space missing on the candidate contributes zero.
func (s *RelationFusion) fusedScore(a, b *domain.Asset) float64 {
	return fusionWeightCLIP*domain.CosineSimilarity(a.Vectors[domain.VectorCLIP], b.Vectors[domain.VectorCLIP]) +
		fusionWeightBLIP*domain.CosineSimilarity(a.Vectors[domain.VectorBLIP], b.Vectors[domain.VectorBLIP]) +
		fusionWeightMobileNet*domain.CosineSimilarity(a.Vectors[domain.VectorMobileNet], b.Vectors[domain.VectorMobileNet])
}

func (s *RelationFusion) link(ctx context.Context, sourceID, targetID string, score float64) (bool, error) {
	exists, err := s.links.Exists(ctx, sourceID, targetID, domain.RelationVisuallySimilar)
	if err != nil {
		return false, fmt.Errorf("check link: %w", err)
	}
	if exists {
		return false, nil
	}

	link := &domain.Link{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Relation:  domain.RelationVisuallySimilar,
		Weight:    score,
		Metadata:  map[string]any{domain.LinkMetaMethod: linkMethodFusion},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.links.Save(ctx, link); err != nil {
		return false, fmt.Errorf("save link: %w", err)
	}
	return true, nil
}
