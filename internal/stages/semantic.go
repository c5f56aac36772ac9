package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*SemanticEmbed)(nil)

// SemanticEmbed encodes the asset's content into the clip space and
// pushes the vector into the external index so the asset becomes
// reachable by semantic search.
type SemanticEmbed struct {
	blobs    driven.BlobStore
	embedder driven.Embedder
	index    driven.VectorIndex
}

func NewSemanticEmbed(blobs driven.BlobStore, embedder driven.Embedder, index driven.VectorIndex) *SemanticEmbed {
	return &SemanticEmbed{blobs: blobs, embedder: embedder, index: index}
}

func (s *SemanticEmbed) Name() string { return "semantic_embed" }

func (s *SemanticEmbed) AppliesTo() []string { return []string{"image"} }

func (s *SemanticEmbed) Process(ctx context.Context, asset *domain.Asset) error {
	if s.embedder == nil {
		logger.Debug("semantic_embed: no embedder configured, skipping %s", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	vec, err := s.embedder.EmbedImage(ctx, content)
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		// An endpoint without image support is a degraded deployment,
		// not a per-asset failure. Skip like an unconfigured embedder.
		logger.Debug("semantic_embed: embedder cannot embed images, skipping %s", asset.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}

	asset.EnsureMaps()
	asset.Vectors[domain.VectorCLIP] = vec

	if s.index != nil {
		payload := map[string]string{
			"owner_id":   asset.OwnerID,
			"asset_type": asset.PrimaryType(),
		}
		if err := s.index.Upsert(ctx, domain.VectorCLIP, asset.ID, vec, payload); err != nil {
			return fmt.Errorf("index vector: %w", err)
		}
		asset.VectorsIndexed[domain.VectorCLIP] = true
	}
	return nil
}
