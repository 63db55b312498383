package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strataco/strata/pkg/record"
)

// summaryThreshold is the interaction count above which a transfer also
// synthesizes a session summary record.
const summaryThreshold = 10

// Target receives records transferred out of a session. Implemented by the
// agent tier and by sink-backed user-tier adapters.
type Target interface {
	Accept(ctx context.Context, r record.Record) error
}

// TransferResult reports what a transfer moved.
type TransferResult struct {
	Transferred int `json:"transferred"`

	// Summary is the synthesized session-summary text, empty when no
	// summary was generated.
	Summary string `json:"summary,omitempty"`
}

// Transfer pushes high-value session records into the target tier without
// consuming the window. Selection: preferences at high or critical
// importance, and factual/semantic records at high importance. Each record
// transfers independently; a failure is logged and skipped, never aborting
// the batch. Sessions with more than ten interactions also transfer one
// synthesized episodic summary.
func (s *Store) Transfer(ctx context.Context, target Target) (TransferResult, error) {
	if target == nil {
		return TransferResult{}, fmt.Errorf("transfer target is required")
	}

	s.mu.Lock()
	candidates := make([]record.Record, 0, len(s.window)+len(s.preferences))
	candidates = append(candidates, s.window...)
	for _, p := range s.preferences {
		candidates = append(candidates, p)
	}
	interactions := s.interactions
	s.mu.Unlock()

	var result TransferResult
	for _, r := range candidates {
		if !transferable(r) {
			continue
		}
		if err := target.Accept(ctx, r); err != nil {
			s.logger.Warn("transfer skipped record",
				"session", s.id, "record", r.ID, "error", err)
			continue
		}
		result.Transferred++
	}

	if interactions > summaryThreshold {
		summary, err := s.transferSummary(ctx, target)
		if err != nil {
			s.logger.Warn("session summary transfer failed", "session", s.id, "error", err)
		} else {
			result.Summary = summary
			result.Transferred++
		}
	}

	return result, nil
}

// transferable applies the selection rules for outbound records.
func transferable(r record.Record) bool {
	switch r.Kind {
	case record.KindPreference:
		return r.Importance >= record.ImportanceHigh
	case record.KindFactual, record.KindSemantic:
		return r.Importance == record.ImportanceHigh
	default:
		return false
	}
}

// transferSummary synthesizes and transfers the episodic session summary.
func (s *Store) transferSummary(ctx context.Context, target Target) (string, error) {
	summary := s.summaryText()

	r, err := record.New(summary, record.SessionScope(s.id),
		record.WithKind(record.KindEpisodic),
		record.WithImportance(record.ImportanceHigh),
		record.WithMetadataValue("title", "session summary: "+s.id),
	)
	if err != nil {
		return "", err
	}

	if err := target.Accept(ctx, r); err != nil {
		return "", err
	}
	return summary, nil
}

// summaryText renders the natural-language session summary: top topics,
// intent, goals, interaction count, and session duration in minutes.
func (s *Store) summaryText() string {
	s.mu.Lock()
	topics := s.topTopicsLocked(3)
	intent := s.intent
	goals := make([]string, len(s.goals))
	copy(goals, s.goals)
	interactions := s.interactions
	duration := time.Since(s.startedAt)
	s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s covered %d interactions over %d minutes.",
		s.id, interactions, int(duration.Minutes()))
	if len(topics) > 0 {
		fmt.Fprintf(&b, " Main topics: %s.", strings.Join(topics, ", "))
	}
	if intent != "" {
		fmt.Fprintf(&b, " Current intent: %s.", intent)
	}
	if len(goals) > 0 {
		fmt.Fprintf(&b, " Goals: %s.", strings.Join(goals, "; "))
	}
	return b.String()
}
