// Package vector provides interfaces and implementations for vector storage.
package vector

import "context"

// Document represents a stored item with its embedding.
type Document struct {
	// ID is a unique identifier for the document (typically the record id).
	ID string

	// Owner scopes the document to a session or agent.
	Owner string

	// Content is the original text, kept for re-embedding and debugging.
	Content string

	// Embedding is the vector representation of the content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score is the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings. Documents are
// partitioned by owner so one session or agent never sees another's vectors.
type Driver interface {
	// Add stores documents with their embeddings. Implementers update
	// documents whose ID already exists.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents within an owner's
	// partition.
	Query(ctx context.Context, owner string, embedding []float32, topK int) ([]QueryResult, error)

	// Delete removes documents by their IDs within an owner's partition.
	Delete(ctx context.Context, owner string, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
