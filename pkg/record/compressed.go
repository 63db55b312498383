package record

import "time"

// Method identifies which compression strategy produced a compressed record.
type Method string

const (
	MethodSemanticMerge     Method = "semantic_merge"
	MethodRedundancyRemoval Method = "redundancy_removal"
	MethodTemporalDecay     Method = "temporal_decay"
	MethodContentSummary    Method = "content_summary"
)

// Segment is one original record's content captured for reversible
// compression, ordered as the originals were merged.
type Segment struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CompressionMetadata carries the method-specific reconstruction data needed
// by decompression. Only the fields relevant to the producing method are set.
type CompressionMetadata struct {
	// OriginalCount is set by redundancy removal: how many byte-identical
	// records the compressed record supersedes.
	OriginalCount int `json:"original_count,omitempty"`

	// OriginalSegments is set by semantic merge: each member's content and
	// timestamp in original order.
	OriginalSegments []Segment `json:"original_segments,omitempty"`

	// TimeSlices is set by temporal decay: each member's content and
	// timestamp sorted by time.
	TimeSlices []Segment `json:"time_slices,omitempty"`

	// SummarizationRatio is set by content summary:
	// len(summary)/len(original).
	SummarizationRatio float64 `json:"summarization_ratio,omitempty"`
}

// Compressed is a record produced by the compression engine. It supersedes
// the records named in OriginalIDs and is immutable after creation; the only
// post-creation lifecycle event is eviction from the decompression cache.
type Compressed struct {
	Record

	OriginalIDs []string `json:"original_ids"`
	Method      Method   `json:"method"`

	// Ratio is originalSize/compressedSize for this record.
	Ratio float64 `json:"compression_ratio"`

	// OriginalContent holds the full-fidelity payload when the method is
	// lossless for a single source (content summary); empty otherwise.
	OriginalContent string `json:"original_content,omitempty"`

	CompressionMetadata CompressionMetadata `json:"compression_metadata"`
}
