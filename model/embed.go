package model

import (
	"context"
	"fmt"
	"log"

	"faq/types"

	"github.com/sashabaranov/go-openai"
)

// EmbedderInterface creates embeddings. Model identifies the vector space;
// indexes built with one model cannot be searched with another.
type EmbedderInterface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Embedder creates embeddings through the OpenAI embeddings API.
type Embedder struct {
	client *openai.Client
	model  string
	retry  RetryPolicy
}

func NewEmbedder(client *openai.Client, model string, retry RetryPolicy) *Embedder {
	log.Printf("[EMBEDDER] uses OpenAI embeddings (%s)", model)
	return &Embedder{
		client: client,
		model:  model,
		retry:  retry,
	}
}

func (e *Embedder) Model() string {
	return e.model
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Results are in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp openai.EmbeddingResponse
	err := e.retry.Do(ctx, "embeddings", func() error {
		var err error
		resp, err = e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(e.model),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrEmbeddingService, err)
	}

	results := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(results) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", types.ErrEmbeddingService, data.Index)
		}
		results[data.Index] = data.Embedding
	}
	for i, vec := range results {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", types.ErrEmbeddingService, i)
		}
	}
	return results, nil
}
