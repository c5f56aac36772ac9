// Package openai adapts an OpenAI-compatible embedding endpoint to the
// driven.Embedder port. It covers the text side of a shared embedding
// space: queries are encoded here, image vectors arrive from an
// external enrichment worker through the same space.
package openai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Config holds the endpoint settings.
type Config struct {
	// BaseURL is the OpenAI-compatible API root.
	BaseURL string

	// Token authenticates requests; "none" works for local services
	// without auth.
	Token string

	// Model is the embedding model name.
	Model string
}

// Embedder is a langchaingo-backed driven.Embedder.
type Embedder struct {
	embedder embeddings.Embedder
}

// NewEmbedder creates an embedder for the configured endpoint.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: embedding endpoint not configured", domain.ErrInvalidInput)
	}
	token := cfg.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("wrap embedder: %w", err)
	}
	return &Embedder{embedder: embedder}, nil
}

// EmbedText encodes query text into the endpoint's embedding space.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	logger.Debug("openai embedder: encoding %d chars", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", domain.ErrEmbeddingUnavailable)
	}
	return vectors[0], nil
}

// EmbedImage is unsupported on a text-only endpoint.
func (e *Embedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	return nil, fmt.Errorf("%w: endpoint embeds text only", domain.ErrEmbeddingUnavailable)
}
