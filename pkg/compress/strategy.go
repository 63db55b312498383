// Package compress implements the strategy-driven record rewrite pipeline.
//
// A compression run is a fixed state machine: Select filters eligible
// records, Group assigns each eligible record to exactly the first strategy
// that supports it, Compress runs each strategy's group concurrently, and
// Aggregate merges results, computes run statistics, and caches the produced
// compressed records for later decompression.
package compress

import (
	"time"

	"github.com/google/uuid"

	"github.com/strataco/strata/pkg/record"
)

// Strategy is one of the four closed record-rewrite algorithms. Assignment is
// mutually exclusive: a record belongs to at most one strategy per run.
type Strategy interface {
	// Method identifies the strategy in produced records and run stats.
	Method() record.Method

	// Supports reports whether the strategy accepts the record.
	Supports(r record.Record) bool

	// Compress rewrites its assigned group into zero or more compressed
	// records. Records that end up in no group (e.g. a unique content hash)
	// are simply left uncompressed.
	Compress(group []record.Record) []record.Compressed
}

// metaCompressedMethod marks a record as the output of a compression run so
// eligibility filtering never re-selects it.
const metaCompressedMethod = "compressed_method"

// IsCompressed reports whether a record was produced by the compression
// engine.
func IsCompressed(r record.Record) bool {
	_, ok := r.Metadata[metaCompressedMethod]
	return ok
}

// newCompressed builds the Compressed envelope shared by all strategies.
// The representative donates scope and kind; provenance metadata carries a
// derived title so downstream surfaces can render the record.
func newCompressed(representative record.Record, method record.Method, content string, originalIDs []string) record.Compressed {
	now := time.Now()

	base := record.Record{
		ID:             uuid.NewString(),
		Content:        content,
		ContentHash:    record.HashContent(content),
		Scope:          representative.Scope,
		Kind:           representative.Kind,
		Importance:     representative.Importance,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    1,
		Metadata: map[string]any{
			metaCompressedMethod: string(method),
			"title":              "compressed: " + representative.Title(),
		},
	}

	return record.Compressed{
		Record:      base,
		OriginalIDs: originalIDs,
		Method:      method,
	}
}

// ratio computes originalSize/compressedSize, guarding the zero-size edge.
func ratio(originalSize, compressedSize int) float64 {
	if compressedSize == 0 {
		return 0
	}
	return float64(originalSize) / float64(compressedSize)
}
