package driven

import (
	"context"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// Inference providers are external black boxes. The core only depends
// on their output shapes and treats every failure as a recorded,
// non-fatal stage error.

// Embedder produces fixed-size numeric vectors. One Embedder instance
// covers one embedding space (e.g. clip or mobilenet); image and query
// text must land in the same space for similarity to be meaningful.
type Embedder interface {
	// EmbedImage encodes raw image bytes.
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)

	// EmbedText encodes query text into the same space.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Captioner generates a human-readable caption for an image, together
// with the caption model's own embedding of it. The vector feeds the
// relation fusion stage; callers may ignore it.
type Captioner interface {
	Caption(ctx context.Context, image []byte) (string, []float32, error)
}

// Tagger produces weighted labels for an image.
type Tagger interface {
	Tag(ctx context.Context, image []byte) ([]domain.AITag, error)
}

// Detector produces localized, labeled boxes for an image.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]domain.DetectedObject, error)
}
