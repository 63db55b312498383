package compress

import (
	"strings"

	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/utils"
)

const (
	// summarySupportLen is the minimum content length the strategy accepts.
	summarySupportLen = 100

	// summaryCompressLen is the minimum content length actually compressed;
	// supported-but-shorter records pass through untouched.
	summaryCompressLen = 200

	// summarySentences is how many leading sentences the summary keeps.
	summarySentences = 2
)

// SummaryStrategy truncates long records to their leading sentences while
// keeping the full original content for lossless decompression.
type SummaryStrategy struct{}

func (SummaryStrategy) Method() record.Method { return record.MethodContentSummary }

// Supports accepts records with more than 100 characters of content.
func (SummaryStrategy) Supports(r record.Record) bool {
	return len(r.Content) > summarySupportLen
}

// Compress summarizes each record independently. Only records longer than
// 200 characters are rewritten; OriginalContent retains the verbatim payload
// so the round trip is byte-exact.
func (s SummaryStrategy) Compress(group []record.Record) []record.Compressed {
	var out []record.Compressed
	for _, r := range group {
		if len(r.Content) <= summaryCompressLen {
			continue
		}

		summary := summarize(r.Content)

		c := newCompressed(r, s.Method(), summary, []string{r.ID})
		c.Ratio = ratio(len(r.Content), len(summary))
		c.OriginalContent = r.Content
		c.CompressionMetadata.SummarizationRatio = float64(len(summary)) / float64(len(r.Content))
		out = append(out, c)
	}
	return out
}

// summarize keeps the first two sentences, marking truncation with an
// ellipsis.
func summarize(content string) string {
	sentences := utils.SplitSentences(content)
	if len(sentences) <= summarySentences {
		return content
	}
	return strings.Join(sentences[:summarySentences], ". ") + "..."
}
