package stages

import (
	"context"
	"fmt"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*Tagging)(nil)
var _ driven.PipelineStage = (*Detection)(nil)

// Tagging assigns weighted labels to the asset.
type Tagging struct {
	blobs  driven.BlobStore
	tagger driven.Tagger
}

func NewTagging(blobs driven.BlobStore, tagger driven.Tagger) *Tagging {
	return &Tagging{blobs: blobs, tagger: tagger}
}

func (s *Tagging) Name() string { return "tagging" }

func (s *Tagging) AppliesTo() []string { return []string{"image"} }

func (s *Tagging) Process(ctx context.Context, asset *domain.Asset) error {
	if s.tagger == nil {
		logger.Debug("tagging: no tagger configured, skipping %s", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	tags, err := s.tagger.Tag(ctx, content)
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}
	asset.AITags = tags
	return nil
}

// Detection runs object detection and stores the localized boxes.
type Detection struct {
	blobs    driven.BlobStore
	detector driven.Detector
}

func NewDetection(blobs driven.BlobStore, detector driven.Detector) *Detection {
	return &Detection{blobs: blobs, detector: detector}
}

func (s *Detection) Name() string { return "detection" }

func (s *Detection) AppliesTo() []string { return []string{"image"} }

func (s *Detection) Process(ctx context.Context, asset *domain.Asset) error {
	if s.detector == nil {
		logger.Debug("detection: no detector configured, skipping %s", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	objects, err := s.detector.Detect(ctx, content)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	asset.DetectedObjects = objects
	return nil
}
