package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*StructuralEmbed)(nil)

// StructuralEmbed encodes the asset in the mobilenet space, capturing
// coarse visual structure. The vector stays on the asset; only the
// relation fusion stage consumes it.
type StructuralEmbed struct {
	blobs    driven.BlobStore
	embedder driven.Embedder
}

func NewStructuralEmbed(blobs driven.BlobStore, embedder driven.Embedder) *StructuralEmbed {
	return &StructuralEmbed{blobs: blobs, embedder: embedder}
}

func (s *StructuralEmbed) Name() string { return "structural_embed" }

func (s *StructuralEmbed) AppliesTo() []string { return []string{"image"} }

func (s *StructuralEmbed) Process(ctx context.Context, asset *domain.Asset) error {
	if s.embedder == nil {
		logger.Debug("structural_embed: no embedder configured, skipping %s", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	vec, err := s.embedder.EmbedImage(ctx, content)
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		logger.Debug("structural_embed: embedder cannot embed images, skipping %s", asset.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}

	asset.EnsureMaps()
	asset.Vectors[domain.VectorMobileNet] = vec
	return nil
}
