package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder is a deterministic embedder for exercising the semantic
// search path without a live provider.
type MockEmbedder struct {
	// Embeddings maps exact input text to the vector to return.
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches,
	// for testing the lexical fallback.
	FailOn string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	// Unseeded text gets a fixed default so tests stay deterministic.
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
