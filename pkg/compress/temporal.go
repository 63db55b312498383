package compress

import (
	"sort"
	"strings"
	"time"

	"github.com/strataco/strata/pkg/record"
)

// TemporalStrategy rolls up aging records day by day. Records created on the
// same calendar day are summarized into a single semicolon-joined record with
// per-member time slices retained for decompression.
type TemporalStrategy struct {
	// Window is the age beyond which records are considered decayed.
	Window time.Duration

	// now is overridable for tests.
	now func() time.Time
}

// NewTemporalStrategy creates a temporal decay strategy with the given window.
func NewTemporalStrategy(window time.Duration) *TemporalStrategy {
	return &TemporalStrategy{Window: window, now: time.Now}
}

func (*TemporalStrategy) Method() record.Method { return record.MethodTemporalDecay }

// Supports accepts records older than the decay window.
func (s *TemporalStrategy) Supports(r record.Record) bool {
	return r.CreatedAt.Before(s.now().Add(-s.Window))
}

// Compress groups by creation day and merges day-groups of two or more,
// members sorted by timestamp.
func (s *TemporalStrategy) Compress(group []record.Record) []record.Compressed {
	byDay := make(map[string][]record.Record)
	var order []string
	for _, r := range group {
		day := r.CreatedAt.Format(time.DateOnly)
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], r)
	}

	var out []record.Compressed
	for _, day := range order {
		members := byDay[day]
		if len(members) < 2 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		})

		ids := make([]string, len(members))
		contents := make([]string, len(members))
		slices := make([]record.Segment, len(members))
		originalSize := 0
		for i, m := range members {
			ids[i] = m.ID
			contents[i] = m.Content
			slices[i] = record.Segment{Content: m.Content, Timestamp: m.CreatedAt}
			originalSize += len(m.Content)
		}

		c := newCompressed(members[0], s.Method(), strings.Join(contents, "; "), ids)
		c.Ratio = ratio(originalSize, len(c.Content))
		c.CompressionMetadata.TimeSlices = slices
		out = append(out, c)
	}

	return out
}
