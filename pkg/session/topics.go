package session

import (
	"sort"
	"strings"
	"time"

	"github.com/strataco/strata/pkg/utils"
)

// goalPhrases are the lead-ins that mark a message as stating a session goal.
var goalPhrases = []string{
	"i want to",
	"i need to",
	"i am trying to",
	"i'm trying to",
	"help me",
	"how do i",
	"my goal is",
}

// trackTopics updates the active-topic frequency table from one message.
// Callers must hold s.mu.
func (s *Store) trackTopics(content string) {
	for _, tok := range utils.Tokenize(content) {
		s.topics[tok]++
	}
}

// detectGoal appends a goal when the message opens with a goal-indicating
// phrase and the goal is not already tracked. Callers must hold s.mu.
func (s *Store) detectGoal(content string) {
	lower := strings.ToLower(content)
	for _, phrase := range goalPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}

		goal := strings.TrimSpace(content[idx:])
		for _, existing := range s.goals {
			if existing == goal {
				return
			}
		}
		s.goals = append(s.goals, goal)
		return
	}
}

// TopTopics returns up to n topics by descending frequency.
func (s *Store) TopTopics(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topTopicsLocked(n)
}

func (s *Store) topTopicsLocked(n int) []string {
	type topicCount struct {
		topic string
		count int
	}

	counts := make([]topicCount, 0, len(s.topics))
	for t, c := range s.topics {
		counts = append(counts, topicCount{t, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].topic < counts[j].topic
	})

	if n > len(counts) {
		n = len(counts)
	}
	out := make([]string, n)
	for i := range n {
		out[i] = counts[i].topic
	}
	return out
}

// ContextSummary is the emitted snapshot of a session's conversational state.
type ContextSummary struct {
	SessionID    string    `json:"session_id"`
	TopTopics    []string  `json:"top_topics"`
	Intent       string    `json:"intent,omitempty"`
	Mood         string    `json:"mood,omitempty"`
	Goals        []string  `json:"goals,omitempty"`
	Interactions int       `json:"interactions"`
	WindowLen    int       `json:"window_len"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
}

// GetContextSummary snapshots the session state.
func (s *Store) GetContextSummary() ContextSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := make([]string, len(s.goals))
	copy(goals, s.goals)

	return ContextSummary{
		SessionID:    s.id,
		TopTopics:    s.topTopicsLocked(3),
		Intent:       s.intent,
		Mood:         s.mood,
		Goals:        goals,
		Interactions: s.interactions,
		WindowLen:    len(s.window),
		StartedAt:    s.startedAt,
		LastActivity: s.lastActivity,
	}
}

// Statistics reports the session's running counters.
type Statistics struct {
	Interactions    int           `json:"interactions"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	ActiveTopics    int           `json:"active_topics"`
	Preferences     int           `json:"preferences"`
	StartedAt       time.Time     `json:"started_at"`
	LastActivity    time.Time     `json:"last_activity"`
	Duration        time.Duration `json:"duration"`
}

// GetStatistics computes the session statistics snapshot.
func (s *Store) GetStatistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	var avg time.Duration
	if len(s.responseTimes) > 0 {
		var total time.Duration
		for _, d := range s.responseTimes {
			total += d
		}
		avg = total / time.Duration(len(s.responseTimes))
	}

	return Statistics{
		Interactions:    s.interactions,
		AvgResponseTime: avg,
		ActiveTopics:    len(s.topics),
		Preferences:     len(s.preferences),
		StartedAt:       s.startedAt,
		LastActivity:    s.lastActivity,
		Duration:        time.Since(s.startedAt),
	}
}
