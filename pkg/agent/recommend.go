package agent

import (
	"sort"
	"strings"

	"github.com/strataco/strata/pkg/record"
)

// maxConsiderations bounds how many best-practice entries feed a
// recommendation.
const maxConsiderations = 3

// Recommendation is the advice produced for a task type.
type Recommendation struct {
	TaskType string `json:"task_type"`

	// Template is the matched template content, or the generic fallback.
	Template string `json:"template"`

	// Generic is true when no template matched the task type.
	Generic bool `json:"generic"`

	// Considerations are drawn from best practices tagged near the task.
	Considerations []string `json:"considerations,omitempty"`
}

var genericSteps = []string{
	"1. Review the task requirements and gather relevant context.",
	"2. Break the task into verifiable sub-steps.",
	"3. Execute each sub-step, validating the outcome before moving on.",
	"4. Record the result and any follow-ups for the next run.",
}

// GetTaskRecommendation finds the first task template whose name contains the
// task type (case-insensitive), falling back to a generic four-step plan.
// Considerations come from up to three best practices whose tags overlap the
// task type.
func (s *Store) GetTaskRecommendation(taskType string) Recommendation {
	needle := strings.ToLower(taskType)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := Recommendation{TaskType: taskType}

	// Candidate names are walked in sorted order so the first match is
	// stable across calls.
	for _, name := range sortedKeys(s.templates) {
		if strings.Contains(strings.ToLower(name), needle) {
			rec.Template = s.templates[name].Content
			break
		}
	}
	if rec.Template == "" {
		rec.Template = strings.Join(genericSteps, "\n")
		rec.Generic = true
	}

	for _, title := range sortedKeys(s.practices) {
		if len(rec.Considerations) == maxConsiderations {
			break
		}
		if practice := s.practices[title]; tagsOverlap(practice, needle) {
			rec.Considerations = append(rec.Considerations, practice.Content)
		}
	}

	return rec
}

func sortedKeys(records map[string]record.Record) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tagsOverlap reports whether any record tag overlaps the task type.
func tagsOverlap(r record.Record, needle string) bool {
	for _, tag := range r.Tags {
		lower := strings.ToLower(tag)
		if strings.Contains(needle, lower) || strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}
