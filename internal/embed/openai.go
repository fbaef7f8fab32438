package embed

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/pmarkov/newsmind/internal/model"
)

// OpenAIProvider produces embeddings via the OpenAI embeddings API.
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int
	dimension int
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(cfg model.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     openai.EmbeddingModel(cfg.Model),
		batchSize: batchSize,
		dimension: cfg.Dimension,
	}, nil
}

// Dimension returns the configured vector length, or 0 when the model's
// native dimensionality is used.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// Embed requests embeddings in batches and returns them in input order.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		req := openai.EmbeddingRequest{
			Input:      texts[start:end],
			Model:      p.model,
			Dimensions: p.dimension,
		}
		resp, err := p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("OpenAI embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("OpenAI returned %d embeddings for %d inputs", len(resp.Data), end-start)
		}

		for _, item := range resp.Data {
			vec := make([]float64, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float64(v)
			}
			vectors = append(vectors, vec)
		}
	}
	return vectors, nil
}
