// Package embedding defines the embedding provider contract and an OpenAI
// implementation. Providers turn text into vectors for semantic similarity
// scoring; the selector degrades gracefully when no provider is configured.
package embedding

import "context"

// Provider computes vector embeddings for text.
type Provider interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider name for logging.
	Name() string
}
