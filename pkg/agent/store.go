// Package agent implements the persistent per-agent knowledge tier: an
// indexed domain-knowledge base with task templates, best practices,
// execution metrics, and a directed knowledge-sharing protocol between
// agents.
package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/strataco/strata/pkg/record"
)

// Role describes what an agent is for.
type Role struct {
	Description      string   `json:"description"`
	Traits           []string `json:"traits,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// Execution is one logged task run.
type Execution struct {
	TaskType string        `json:"task_type"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	At       time.Time     `json:"at"`
}

// Store holds one agent's knowledge base. A store serializes mutations under
// its own lock; different agents' stores share nothing.
//
// Every knowledge insert updates the three secondary indices in the same
// critical section as the primary map, so readers never observe a record
// without its index entries.
type Store struct {
	id   string
	name string

	mu sync.RWMutex

	role        Role
	knowledge   map[string]record.Record
	templates   map[string]record.Record
	practices   map[string]record.Record
	caseStudies map[string]record.Record

	topicIndex      map[string]map[string]bool
	importanceIndex map[record.Importance][]string
	tagIndex        map[string][]string

	executions   []Execution
	totalExecs   int
	successExecs int
	totalTime    time.Duration
	avgByTask    map[string]time.Duration

	connected map[string]bool
	shareLog  []ShareEvent

	logger *slog.Logger
}

// Option configures an agent store.
type Option func(*Store)

// WithName sets the human-readable agent name used in shared-record titles.
// Defaults to the agent id.
func WithName(name string) Option {
	return func(s *Store) { s.name = name }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a knowledge store for the given agent id. Stores are
// long-lived and never auto-expire.
func NewStore(agentID string, opts ...Option) *Store {
	s := &Store{
		id:              agentID,
		name:            agentID,
		knowledge:       make(map[string]record.Record),
		templates:       make(map[string]record.Record),
		practices:       make(map[string]record.Record),
		caseStudies:     make(map[string]record.Record),
		topicIndex:      make(map[string]map[string]bool),
		importanceIndex: make(map[record.Importance][]string),
		tagIndex:        make(map[string][]string),
		avgByTask:       make(map[string]time.Duration),
		connected:       make(map[string]bool),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the agent id.
func (s *Store) ID() string { return s.id }

// Name returns the agent name.
func (s *Store) Name() string { return s.name }

// DefineRole sets the agent's role definition.
func (s *Store) DefineRole(description string, traits, responsibilities []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = Role{
		Description:      description,
		Traits:           traits,
		Responsibilities: responsibilities,
	}
}

// Role returns the agent's role definition.
func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// AddDomainKnowledge inserts a titled knowledge record and indexes it.
func (s *Store) AddDomainKnowledge(title, content string, importance record.Importance, tags []string) (record.Record, error) {
	r, err := record.New(content, record.AgentScope(s.id),
		record.WithKind(record.KindSemantic),
		record.WithImportance(importance),
		record.WithTags(tags...),
		record.WithMetadataValue("title", title),
	)
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	s.insertKnowledgeLocked(r)
	s.mu.Unlock()
	return r, nil
}

// AddTaskTemplate registers a named task template.
func (s *Store) AddTaskTemplate(name, content string, importance record.Importance) (record.Record, error) {
	r, err := record.New(content, record.AgentScope(s.id),
		record.WithKind(record.KindProcedural),
		record.WithImportance(importance),
		record.WithMetadataValue("title", name),
	)
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	s.templates[name] = r
	s.mu.Unlock()
	return r, nil
}

// AddBestPractice registers a tagged best practice.
func (s *Store) AddBestPractice(title, content string, tags []string) (record.Record, error) {
	r, err := record.New(content, record.AgentScope(s.id),
		record.WithKind(record.KindProcedural),
		record.WithImportance(record.ImportanceHigh),
		record.WithTags(tags...),
		record.WithMetadataValue("title", title),
	)
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	s.practices[title] = r
	s.mu.Unlock()
	return r, nil
}

// AddCaseStudy registers a case study for later recommendation context.
func (s *Store) AddCaseStudy(title, content string, tags []string) (record.Record, error) {
	r, err := record.New(content, record.AgentScope(s.id),
		record.WithKind(record.KindEpisodic),
		record.WithTags(tags...),
		record.WithMetadataValue("title", title),
	)
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	s.caseStudies[title] = r
	s.mu.Unlock()
	return r, nil
}

// Accept receives a record transferred from another tier and files it as
// domain knowledge. Satisfies the session transfer target.
func (s *Store) Accept(_ context.Context, r record.Record) error {
	rescoped := r
	rescoped.Scope = record.AgentScope(s.id)

	s.mu.Lock()
	s.insertKnowledgeLocked(rescoped)
	s.mu.Unlock()
	return nil
}

// Knowledge returns the knowledge record by id.
func (s *Store) Knowledge(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.knowledge[id]
	return r, ok
}

// KnowledgeCount returns the number of knowledge records.
func (s *Store) KnowledgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.knowledge)
}

// AllKnowledge returns a copy of every knowledge record, for compression
// sweeps and analytics.
func (s *Store) AllKnowledge() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, 0, len(s.knowledge))
	for _, r := range s.knowledge {
		out = append(out, r)
	}
	return out
}

// ReplaceKnowledge removes the superseded ids and inserts replacements in one
// critical section. Used by compression sweeps so readers never see a
// half-applied rewrite.
func (s *Store) ReplaceKnowledge(supersededIDs []string, replacements []record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range supersededIDs {
		s.removeKnowledgeLocked(id)
	}
	for _, r := range replacements {
		s.insertKnowledgeLocked(r)
	}
}

// insertKnowledgeLocked files a record in the primary map and all three
// secondary indices. Callers must hold s.mu.
func (s *Store) insertKnowledgeLocked(r record.Record) {
	s.knowledge[r.ID] = r

	for _, tag := range r.Tags {
		set, ok := s.topicIndex[tag]
		if !ok {
			set = make(map[string]bool)
			s.topicIndex[tag] = set
		}
		set[r.ID] = true

		s.tagIndex[tag] = append(s.tagIndex[tag], r.ID)
	}

	s.importanceIndex[r.Importance] = append(s.importanceIndex[r.Importance], r.ID)
}

// removeKnowledgeLocked unfiles a record from the primary map and indices.
// Callers must hold s.mu.
func (s *Store) removeKnowledgeLocked(id string) {
	r, ok := s.knowledge[id]
	if !ok {
		return
	}
	delete(s.knowledge, id)

	for _, tag := range r.Tags {
		if set, ok := s.topicIndex[tag]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(s.topicIndex, tag)
			}
		}
		s.tagIndex[tag] = removeID(s.tagIndex[tag], id)
		if len(s.tagIndex[tag]) == 0 {
			delete(s.tagIndex, tag)
		}
	}

	s.importanceIndex[r.Importance] = removeID(s.importanceIndex[r.Importance], id)
	if len(s.importanceIndex[r.Importance]) == 0 {
		delete(s.importanceIndex, r.Importance)
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
