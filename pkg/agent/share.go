package agent

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/strataco/strata/pkg/record"
)

// maxSharedRecords bounds one knowledge-sharing batch.
const maxSharedRecords = 5

// ShareEvent is the sender-side audit entry for one sharing batch.
type ShareEvent struct {
	Receiver string    `json:"receiver"`
	Topic    string    `json:"topic"`
	Shared   int       `json:"shared"`
	Tags     []string  `json:"tags,omitempty"`
	At       time.Time `json:"at"`
}

// ShareResult reports what a sharing batch moved.
type ShareResult struct {
	Shared int      `json:"shared"`
	Tags   []string `json:"tags,omitempty"`
}

// ShareKnowledgeWith copies up to five high-or-critical knowledge records
// matching the topic into the other agent's store. Each copy is retitled
// "shared from <name>: <title>" and keeps the original tags and importance.
// Failures transfer-by-transfer are logged and skipped.
//
// The connection is recorded as directed: the sender logs the share event and
// adds the receiver to its connected set; the receiver does not reciprocate.
func (s *Store) ShareKnowledgeWith(ctx context.Context, other *Store, topic string) (ShareResult, error) {
	needle := strings.ToLower(topic)

	s.mu.RLock()
	var candidates []record.Record
	for _, r := range s.knowledge {
		if r.Importance < record.ImportanceHigh {
			continue
		}
		if matchesTopic(r, needle) {
			candidates = append(candidates, r)
		}
	}
	senderName := s.name
	s.mu.RUnlock()

	// Highest-value knowledge goes first when the batch is over the cap.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Importance > candidates[j].Importance
	})
	if len(candidates) > maxSharedRecords {
		candidates = candidates[:maxSharedRecords]
	}

	tagSet := make(map[string]bool)
	shared := 0
	for _, r := range candidates {
		title := "shared from " + senderName + ": " + r.Title()
		if _, err := other.AddDomainKnowledge(title, r.Content, r.Importance, r.Tags); err != nil {
			s.logger.WarnContext(ctx, "knowledge share skipped record",
				"sender", s.id, "receiver", other.ID(), "record", r.ID, "error", err)
			continue
		}
		shared++
		for _, tag := range r.Tags {
			tagSet[tag] = true
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	s.mu.Lock()
	s.connected[other.ID()] = true
	s.shareLog = append(s.shareLog, ShareEvent{
		Receiver: other.ID(),
		Topic:    topic,
		Shared:   shared,
		Tags:     tags,
		At:       time.Now(),
	})
	s.mu.Unlock()

	return ShareResult{Shared: shared, Tags: tags}, nil
}

// matchesTopic reports whether the topic appears in the record's content or
// tags.
func matchesTopic(r record.Record, needle string) bool {
	if strings.Contains(strings.ToLower(r.Content), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ConnectedAgents returns the ids this agent has shared knowledge with.
func (s *Store) ConnectedAgents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.connected))
	for id := range s.connected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ShareLog returns a copy of the sharing audit log.
func (s *Store) ShareLog() []ShareEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ShareEvent, len(s.shareLog))
	copy(out, s.shareLog)
	return out
}
