package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// OpenAIProvider implements Provider using the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider backed by the given OpenAI client.
// An empty model falls back to DefaultModel.
func NewOpenAIProvider(client *openai.Client, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIProvider{
		client: client,
		model:  model,
	}
}

// Name returns the provider name for logging.
func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model
}

// Embed generates the embedding vector for a single text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
