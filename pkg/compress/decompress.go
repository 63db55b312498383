package compress

import (
	"fmt"

	"github.com/strataco/strata/pkg/record"
)

// Decompress reconstructs candidate records from a compressed record. It is a
// pure function of the record's method, reconstruction metadata, and original
// content: no store is consulted or mutated. The caller decides whether to
// re-insert the candidates.
func Decompress(c record.Compressed) ([]record.Record, error) {
	switch c.Method {
	case record.MethodRedundancyRemoval:
		return decompressRedundancy(c)
	case record.MethodSemanticMerge:
		return decompressSegments(c, c.CompressionMetadata.OriginalSegments)
	case record.MethodTemporalDecay:
		return decompressSegments(c, c.CompressionMetadata.TimeSlices)
	case record.MethodContentSummary:
		return decompressSummary(c)
	default:
		return nil, fmt.Errorf("unknown compression method %q", c.Method)
	}
}

// decompressRedundancy re-expands a duplicate group: one record per original,
// each tagged with its duplicate index.
func decompressRedundancy(c record.Compressed) ([]record.Record, error) {
	count := c.CompressionMetadata.OriginalCount
	if count < 1 {
		return nil, fmt.Errorf("redundancy record %s has no original count", c.ID)
	}

	out := make([]record.Record, 0, count)
	for i := range count {
		r, err := record.New(c.Content, c.Scope,
			record.WithKind(c.Kind),
			record.WithImportance(c.Importance),
			record.WithMetadataValue("duplicate_index", i),
			record.WithMetadataValue("decompressed_from", c.ID),
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// decompressSegments restores one record per captured segment, tagging each
// with its original timestamp.
func decompressSegments(c record.Compressed, segments []record.Segment) ([]record.Record, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("compressed record %s has no segments", c.ID)
	}

	out := make([]record.Record, 0, len(segments))
	for _, seg := range segments {
		r, err := record.New(seg.Content, c.Scope,
			record.WithKind(c.Kind),
			record.WithImportance(c.Importance),
			record.WithMetadataValue("original_timestamp", seg.Timestamp),
			record.WithMetadataValue("decompressed_from", c.ID),
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// decompressSummary recovers the single full-fidelity original.
func decompressSummary(c record.Compressed) ([]record.Record, error) {
	if c.OriginalContent == "" {
		return nil, fmt.Errorf("summary record %s has no original content", c.ID)
	}

	r, err := record.New(c.OriginalContent, c.Scope,
		record.WithKind(c.Kind),
		record.WithImportance(c.Importance),
		record.WithMetadataValue("decompressed_from", c.ID),
	)
	if err != nil {
		return nil, err
	}
	return []record.Record{r}, nil
}
