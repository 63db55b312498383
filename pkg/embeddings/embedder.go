// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities. Implementations live
// outside the engine; the engine only degrades gracefully when one is
// missing.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
