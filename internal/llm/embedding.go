package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/callsift/internal/cache"
	"github.com/ppiankov/callsift/internal/model"
)

// EmbeddingProvider turns text into a fixed-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedder is the OpenAI-compatible EmbeddingProvider implementation.
type Embedder struct {
	api   *openai.Client
	model string
}

// NewEmbedder builds an embedding client against cfg.BaseURL.
func NewEmbedder(cfg model.EmbeddingConfig) *Embedder {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return &Embedder{api: openai.NewClientWithConfig(clientConfig), model: cfg.Model}
}

// Embed returns the vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, &model.EmbeddingError{Sentence: text, Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &model.EmbeddingError{Sentence: text, Err: fmt.Errorf("empty embedding response")}
	}
	return resp.Data[0].Embedding, nil
}

// CachedEmbedder memoizes vectors for a run. Duplicate sentences show up
// constantly within one document, so this saves real endpoint round-trips.
type CachedEmbedder struct {
	inner EmbeddingProvider
	cache cache.Cache
	model string
}

// NewCachedEmbedder wraps an EmbeddingProvider with a cache. Expiry is the
// cache's concern.
func NewCachedEmbedder(inner EmbeddingProvider, c cache.Cache, cfg model.EmbeddingConfig) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c, model: cfg.Model}
}

// Embed serves from cache when possible.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(e.model, text)
	if vec, ok := e.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, vec)
	return vec, nil
}
