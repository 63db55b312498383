// Package pattern discovers groupings across a set of memory records.
//
// All analyzers are pure functions: they never mutate the input records and
// hold no state between calls. A record may participate in patterns of
// several types at once; the analyzers are independent of each other.
package pattern

import (
	"sort"
	"time"

	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/utils"
)

// Type classifies a discovered pattern.
type Type string

const (
	TypeCoOccurrence     Type = "co_occurrence"
	TypeTemporalCluster  Type = "temporal_cluster"
	TypeTopicCorrelation Type = "topic_correlation"
)

// Pattern is one discovered grouping of records.
type Pattern struct {
	Type Type `json:"type"`

	// Label is the shared token, cluster window start, or topic value.
	Label string `json:"label"`

	// RecordIDs are the participating records.
	RecordIDs []string `json:"record_ids"`

	// Strength is the fraction of the analyzed set participating.
	Strength float64 `json:"strength"`
}

const (
	// coOccurrenceMinCount is the minimum token occurrences to emit a pattern.
	coOccurrenceMinCount = 3

	// coOccurrenceMinRecords is the minimum distinct records a token must span.
	coOccurrenceMinRecords = 2

	// temporalGap is the maximum creation-time gap within a cluster.
	temporalGap = 2 * time.Hour

	// temporalMinCluster is the minimum cluster size to emit a pattern.
	temporalMinCluster = 2

	// topicMinGroup is the minimum shared-topic group size to emit a pattern.
	topicMinGroup = 3
)

// CoOccurrence finds tokens recurring across records. Content is tokenized
// with stop-words and short tokens dropped; a token appearing at least three
// times across at least two distinct records yields a pattern whose strength
// is occurrences over total records.
func CoOccurrence(records []record.Record) []Pattern {
	if len(records) == 0 {
		return nil
	}

	type tokenStat struct {
		count int
		ids   map[string]bool
	}

	stats := make(map[string]*tokenStat)
	for _, r := range records {
		for _, tok := range utils.Tokenize(r.Content) {
			s, ok := stats[tok]
			if !ok {
				s = &tokenStat{ids: make(map[string]bool)}
				stats[tok] = s
			}
			s.count++
			s.ids[r.ID] = true
		}
	}

	var patterns []Pattern
	for tok, s := range stats {
		if s.count < coOccurrenceMinCount || len(s.ids) < coOccurrenceMinRecords {
			continue
		}

		ids := make([]string, 0, len(s.ids))
		for id := range s.ids {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		patterns = append(patterns, Pattern{
			Type:      TypeCoOccurrence,
			Label:     tok,
			RecordIDs: ids,
			Strength:  float64(s.count) / float64(len(records)),
		})
	}

	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Label < patterns[j].Label })
	return patterns
}

// TemporalClusters groups records created close together in time. Records are
// sorted by creation time and greedily clustered while the gap to the
// previous record is at most two hours; clusters of two or more records
// become patterns with strength clusterSize over total records.
func TemporalClusters(records []record.Record) []Pattern {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var patterns []Pattern
	cluster := []record.Record{sorted[0]}

	flush := func() {
		if len(cluster) >= temporalMinCluster {
			ids := make([]string, len(cluster))
			for i, r := range cluster {
				ids[i] = r.ID
			}
			patterns = append(patterns, Pattern{
				Type:      TypeTemporalCluster,
				Label:     cluster[0].CreatedAt.Format(time.RFC3339),
				RecordIDs: ids,
				Strength:  float64(len(cluster)) / float64(len(records)),
			})
		}
	}

	for _, r := range sorted[1:] {
		if r.CreatedAt.Sub(cluster[len(cluster)-1].CreatedAt) <= temporalGap {
			cluster = append(cluster, r)
			continue
		}
		flush()
		cluster = []record.Record{r}
	}
	flush()

	return patterns
}

// TopicCorrelations groups records that declare the same metadata topic.
// Groups of three or more become patterns with strength groupSize over total
// records.
func TopicCorrelations(records []record.Record) []Pattern {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[string][]string)
	for _, r := range records {
		topic, ok := r.Metadata["topic"].(string)
		if !ok || topic == "" {
			continue
		}
		groups[topic] = append(groups[topic], r.ID)
	}

	var patterns []Pattern
	for topic, ids := range groups {
		if len(ids) < topicMinGroup {
			continue
		}
		patterns = append(patterns, Pattern{
			Type:      TypeTopicCorrelation,
			Label:     topic,
			RecordIDs: ids,
			Strength:  float64(len(ids)) / float64(len(records)),
		})
	}

	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Label < patterns[j].Label })
	return patterns
}

// Discover runs all analyzers and returns the combined patterns.
func Discover(records []record.Record) []Pattern {
	var patterns []Pattern
	patterns = append(patterns, CoOccurrence(records)...)
	patterns = append(patterns, TemporalClusters(records)...)
	patterns = append(patterns, TopicCorrelations(records)...)
	return patterns
}
