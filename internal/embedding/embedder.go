// Package embedding converts text into the vector space the knowledge-base
// index was built in. One embedder serves both ingestion and query time so
// the two sides can never drift apart.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"

	"github.com/volleykb/assistant/backend/internal/config"
)

// Embedder produces embedding vectors for free text.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Client wraps the eino OpenAI-compatible embeddings component. The base
// URL is configurable so Ollama-style local servers work too.
type Client struct {
	inner *openaiembed.Embedder
}

// NewClient constructs the embeddings client from configuration.
func NewClient(ctx context.Context, cfg config.EmbeddingConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding API key missing: set EMBEDDING_API_KEY or OPENAI_API_KEY")
	}

	inner, err := openaiembed.NewEmbedder(ctx, &openaiembed.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &Client{inner: inner}, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := c.inner.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d want %d", len(vectors), len(texts))
	}
	return vectors, nil
}
