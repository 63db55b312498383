package vector

import "errors"

var (
	// ErrNotFound is returned when a document is absent from an owner's
	// collection.
	ErrNotFound = errors.New("document not found")

	// ErrEmbedding is returned when embedding generation fails; callers fall
	// back to lexical scoring.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned when the vector store backend is unreachable.
	ErrConnection = errors.New("vector store connection failed")
)
