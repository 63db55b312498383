package compress

import (
	"strings"

	"github.com/strataco/strata/pkg/record"
)

// semanticPrefixLen is how much leading content feeds the grouping key.
const semanticPrefixLen = 50

// SemanticStrategy merges records whose content opens the same way. The
// grouping key is a normalized prefix; any deterministic content-to-key
// function with the same grouping behavior (e.g. embedding clusters) is a
// valid substitute.
type SemanticStrategy struct{}

func (SemanticStrategy) Method() record.Method { return record.MethodSemanticMerge }

// Supports accepts records long enough to have a meaningful prefix.
func (SemanticStrategy) Supports(r record.Record) bool {
	return len(r.Content) > semanticPrefixLen
}

// similarityKey normalizes the first 50 characters: lowercased with
// whitespace runs collapsed.
func similarityKey(content string) string {
	prefix := content
	if len(prefix) > semanticPrefixLen {
		prefix = prefix[:semanticPrefixLen]
	}
	return strings.Join(strings.Fields(strings.ToLower(prefix)), " ")
}

// Compress concatenates each similarity group in original order, capturing
// every member's content and timestamp as an ordered segment for
// decompression.
func (s SemanticStrategy) Compress(group []record.Record) []record.Compressed {
	byKey := make(map[string][]record.Record)
	var order []string
	for _, r := range group {
		key := similarityKey(r.Content)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	var out []record.Compressed
	for _, key := range order {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}

		ids := make([]string, len(members))
		contents := make([]string, len(members))
		segments := make([]record.Segment, len(members))
		originalSize := 0
		for i, m := range members {
			ids[i] = m.ID
			contents[i] = m.Content
			segments[i] = record.Segment{Content: m.Content, Timestamp: m.CreatedAt}
			originalSize += len(m.Content)
		}

		c := newCompressed(members[0], s.Method(), strings.Join(contents, "\n"), ids)
		c.Ratio = ratio(originalSize, len(c.Content))
		c.CompressionMetadata.OriginalSegments = segments
		out = append(out, c)
	}

	return out
}
