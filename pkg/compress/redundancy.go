package compress

import "github.com/strataco/strata/pkg/record"

// RedundancyStrategy collapses byte-identical records. Grouping is exact
// content-hash equality; semantic near-duplicates are out of contract.
type RedundancyStrategy struct{}

func (RedundancyStrategy) Method() record.Method { return record.MethodRedundancyRemoval }

// Supports accepts every record; redundancy removal is the catch-all.
func (RedundancyStrategy) Supports(record.Record) bool { return true }

// Compress emits one compressed record per duplicate group, keeping the
// first member as representative. Groups of one are left alone.
func (s RedundancyStrategy) Compress(group []record.Record) []record.Compressed {
	byHash := make(map[string][]record.Record)
	var order []string
	for _, r := range group {
		if _, seen := byHash[r.ContentHash]; !seen {
			order = append(order, r.ContentHash)
		}
		byHash[r.ContentHash] = append(byHash[r.ContentHash], r)
	}

	var out []record.Compressed
	for _, hash := range order {
		members := byHash[hash]
		if len(members) < 2 {
			continue
		}

		ids := make([]string, len(members))
		originalSize := 0
		for i, m := range members {
			ids[i] = m.ID
			originalSize += len(m.Content)
		}

		c := newCompressed(members[0], s.Method(), members[0].Content, ids)
		c.Ratio = ratio(originalSize, len(c.Content))
		c.CompressionMetadata.OriginalCount = len(members)
		out = append(out, c)
	}

	return out
}
