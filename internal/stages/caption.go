package stages

import (
	"context"
	"fmt"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*Caption)(nil)

// Caption generates a free-text caption and stores the caption model's
// own embedding alongside it; that vector is one of the three inputs to
// relation fusion.
type Caption struct {
	blobs     driven.BlobStore
	captioner driven.Captioner
}

func NewCaption(blobs driven.BlobStore, captioner driven.Captioner) *Caption {
	return &Caption{blobs: blobs, captioner: captioner}
}

func (s *Caption) Name() string { return "caption" }

func (s *Caption) AppliesTo() []string { return []string{"image"} }

func (s *Caption) Process(ctx context.Context, asset *domain.Asset) error {
	if s.captioner == nil {
		logger.Debug("caption: no captioner configured, skipping %s", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	text, vec, err := s.captioner.Caption(ctx, content)
	if err != nil {
		return fmt.Errorf("caption: %w", err)
	}

	asset.EnsureMaps()
	asset.AICaption = text
	if len(vec) > 0 {
		asset.Vectors[domain.VectorBLIP] = vec
	}
	return nil
}
