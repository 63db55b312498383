package agent

import "github.com/strataco/strata/pkg/record"

// Advisory thresholds for AnalyzeAndOptimize.
const (
	minTopicCount      = 5
	minTemplateCount   = 3
	minSuccessRate     = 80.0
	minConnectedAgents = 2
	maxMinimalFraction = 0.3
)

// Suggestion is one advisory produced by the optimization pass.
type Suggestion struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AnalyzeAndOptimize runs the heuristic advisory pass. It returns a single
// healthy-configuration suggestion when nothing triggers.
func (s *Store) AnalyzeAndOptimize() []Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var suggestions []Suggestion

	if len(s.topicIndex) < minTopicCount {
		suggestions = append(suggestions, Suggestion{
			Category: "coverage",
			Message:  "knowledge covers few topics; add domain knowledge across more areas",
		})
	}

	if len(s.templates) < minTemplateCount {
		suggestions = append(suggestions, Suggestion{
			Category: "templates",
			Message:  "few task templates registered; add templates for recurring task types",
		})
	}

	if s.totalExecs > 0 {
		rate := float64(s.successExecs) / float64(s.totalExecs) * 100
		if rate < minSuccessRate {
			suggestions = append(suggestions, Suggestion{
				Category: "reliability",
				Message:  "task success rate is below 80%; review failing task types",
			})
		}
	}

	if len(s.connected) < minConnectedAgents {
		suggestions = append(suggestions, Suggestion{
			Category: "collaboration",
			Message:  "agent is poorly connected; share knowledge with peer agents",
		})
	}

	if len(s.knowledge) > 0 {
		minimal := 0
		for _, r := range s.knowledge {
			if r.Importance == record.ImportanceMinimal {
				minimal++
			}
		}
		if float64(minimal)/float64(len(s.knowledge)) > maxMinimalFraction {
			suggestions = append(suggestions, Suggestion{
				Category: "hygiene",
				Message:  "over 30% of knowledge is minimal importance; compress or prune stale records",
			})
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Category: "healthy",
			Message:  "agent configuration is healthy",
		})
	}

	return suggestions
}
