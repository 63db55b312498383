package agent

import (
	"sort"
	"strings"

	"github.com/strataco/strata/pkg/record"
)

// Relevance weights for substring matches. Additive and uncapped.
const (
	contentMatchWeight = 1.0
	tagMatchWeight     = 0.5
	titleMatchWeight   = 0.8
)

// SearchResult pairs a knowledge record with its computed relevance.
type SearchResult struct {
	Record    record.Record `json:"record"`
	Relevance float64       `json:"relevance"`
}

// SearchDomainKnowledge finds knowledge records whose content, tags, or title
// contain the query (case-insensitive), ranked by importance descending then
// relevance descending, truncated to limit.
func (s *Store) SearchDomainKnowledge(query string, limit int) []SearchResult {
	needle := strings.ToLower(query)

	s.mu.RLock()
	var results []SearchResult
	for _, r := range s.knowledge {
		relevance := relevanceOf(r, needle)
		if relevance == 0 {
			continue
		}
		results = append(results, SearchResult{Record: r, Relevance: relevance})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Record.Importance != b.Record.Importance {
			return a.Record.Importance > b.Record.Importance
		}
		return a.Relevance > b.Relevance
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// relevanceOf scores a record against a lowercased query: 1.0 for a content
// match, 0.5 per matching tag, 0.8 for a title match.
func relevanceOf(r record.Record, needle string) float64 {
	var relevance float64

	if strings.Contains(strings.ToLower(r.Content), needle) {
		relevance += contentMatchWeight
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			relevance += tagMatchWeight
		}
	}
	if strings.Contains(strings.ToLower(r.Title()), needle) {
		relevance += titleMatchWeight
	}

	return relevance
}
