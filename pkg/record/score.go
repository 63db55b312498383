package record

import (
	"math"
	"strings"
	"time"

	"github.com/strataco/strata/pkg/utils"
)

// Weights for the decay score. Importance dominates so that a critical record
// never ranks below a freshly touched minimal one.
const (
	decayImportanceWeight = 0.5
	decayRecencyWeight    = 0.3
	decayFrequencyWeight  = 0.2

	// recencyHalfLife is how long it takes the recency component to halve.
	recencyHalfLife = 7 * 24 * time.Hour

	// frequencySaturation is the access count at which the frequency
	// component maxes out.
	frequencySaturation = 20.0
)

// DecayScore ranks a record by importance and access recency/frequency.
// Higher importance, more recent access, and more frequent access all raise
// the score. The score is recomputed on demand and never persisted.
func (r Record) DecayScore(now time.Time) float64 {
	importance := float64(r.Importance.Score()) / float64(ImportanceCritical.Score())

	age := now.Sub(r.LastAccessedAt)
	if age < 0 {
		age = 0
	}
	recency := math.Exp(-math.Ln2 * age.Hours() / recencyHalfLife.Hours())

	frequency := math.Min(1.0, float64(r.AccessCount)/frequencySaturation)

	return decayImportanceWeight*importance +
		decayRecencyWeight*recency +
		decayFrequencyWeight*frequency
}

// RelevanceScore is the lexical token-overlap heuristic used for ranking when
// no embedding collaborator is available. Returns the fraction of query
// tokens present in the content, in [0, 1].
func (r Record) RelevanceScore(query string) float64 {
	queryTokens := utils.Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}

	content := strings.ToLower(r.Content)
	matched := 0
	for _, tok := range queryTokens {
		if strings.Contains(content, tok) {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTokens))
}
