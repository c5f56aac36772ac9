// Package mock provides deterministic test doubles for the inference
// ports. Vectors derive from an FNV hash of the input, so the same
// content always embeds to the same point and tests stay reproducible
// without model servers. Function fields allow custom behavior
// injection per test.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure the mocks implement the interfaces.
var (
	_ driven.Embedder  = (*Embedder)(nil)
	_ driven.Captioner = (*Captioner)(nil)
	_ driven.Tagger    = (*Tagger)(nil)
	_ driven.Detector  = (*Detector)(nil)
)

// Embedder is a test double for driven.Embedder. Distinct Salt values
// simulate distinct embedding spaces from one implementation.
type Embedder struct {
	// Salt separates embedding spaces (e.g. "clip" vs "mobilenet").
	Salt string

	// Dim is the vector dimension; zero means 64.
	Dim int

	// EmbedImageFunc overrides EmbedImage if set.
	EmbedImageFunc func(ctx context.Context, image []byte) ([]float32, error)

	// EmbedTextFunc overrides EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder creates a mock embedder for the named space.
func NewEmbedder(salt string) *Embedder {
	return &Embedder{Salt: salt}
}

// EmbedImage returns a deterministic unit vector for the content.
func (m *Embedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, image)
	}
	return m.vector(string(image)), nil
}

// EmbedText returns a deterministic unit vector for the text.
func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return m.vector(text), nil
}

func (m *Embedder) vector(input string) []float32 {
	dim := m.Dim
	if dim <= 0 {
		dim = 64
	}
	return DeterministicVector(m.Salt+input, dim)
}

// Captioner is a test double for driven.Captioner.
type Captioner struct {
	// CaptionFunc overrides Caption if set.
	CaptionFunc func(ctx context.Context, image []byte) (string, []float32, error)
}

// NewCaptioner creates a mock captioner.
func NewCaptioner() *Captioner {
	return &Captioner{}
}

// Caption returns a size-derived caption and a deterministic vector.
func (m *Captioner) Caption(ctx context.Context, image []byte) (string, []float32, error) {
	if m.CaptionFunc != nil {
		return m.CaptionFunc(ctx, image)
	}
	caption := fmt.Sprintf("an image of %d bytes", len(image))
	return caption, DeterministicVector("blip"+string(image), 64), nil
}

// Tagger is a test double for driven.Tagger.
type Tagger struct {
	// TagFunc overrides Tag if set.
	TagFunc func(ctx context.Context, image []byte) ([]domain.AITag, error)
}

// NewTagger creates a mock tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag returns two fixed tags with content-derived confidences.
func (m *Tagger) Tag(ctx context.Context, image []byte) ([]domain.AITag, error) {
	if m.TagFunc != nil {
		return m.TagFunc(ctx, image)
	}
	h := fnv.New32a()
	h.Write(image)
	conf := 0.5 + float64(h.Sum32()%50)/100.0
	return []domain.AITag{
		{Label: "synthetic", Confidence: conf},
		{Label: "test", Confidence: 0.99},
	}, nil
}

// Detector is a test double for driven.Detector.
type Detector struct {
	// DetectFunc overrides Detect if set.
	DetectFunc func(ctx context.Context, image []byte) ([]domain.DetectedObject, error)
}

// NewDetector creates a mock detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns one centered full-frame detection.
func (m *Detector) Detect(ctx context.Context, image []byte) ([]domain.DetectedObject, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, image)
	}
	return []domain.DetectedObject{
		{
			Class:      "object",
			Confidence: 0.9,
			BBoxX:      0.0,
			BBoxY:      0.0,
			BBoxW:      1.0,
			BBoxH:      1.0,
			ModelName:  "mock-detector",
		},
	}, nil
}

// DeterministicVector creates a unit vector from an FNV hash of the
// input, so equal inputs always embed to equal points.
func DeterministicVector(input string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(input))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/1000.0 - 0.5
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if norm := math.Sqrt(sumSquares); norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector
}
