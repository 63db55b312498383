// Package session implements the ephemeral per-conversation memory tier: a
// bounded, importance-ordered context window with topic and intent tracking,
// and end-of-session transfer of high-value records into a longer-lived tier.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/strataco/strata/pkg/classify"
	"github.com/strataco/strata/pkg/embeddings"
	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/vector"
)

const (
	// DefaultWindowSize is the context window capacity when unconfigured.
	DefaultWindowSize = 20

	// MaxWindowSize is the hard ceiling for the context window.
	MaxWindowSize = 50

	// idleExpiry is how long a session may sit idle before Expired reports
	// true. Policy constant, not configurable.
	idleExpiry = 60 * time.Minute
)

// Store holds one active conversation's working memory. All methods are safe
// for concurrent use; operations against the same session serialize on the
// store's lock while different sessions proceed independently.
type Store struct {
	id string

	mu          sync.Mutex
	window      []record.Record
	preferences map[string]record.Record
	topics      map[string]int
	goals       []string
	intent      string
	mood        string

	interactions  int
	responseTimes []time.Duration
	startedAt     time.Time
	lastActivity  time.Time

	windowSize int
	classifier classify.Classifier
	embedder   embeddings.Embedder
	vectors    vector.Driver
	logger     *slog.Logger
}

// Option configures a session store.
type Option func(*Store)

// WithWindowSize sets the context window capacity, clamped to MaxWindowSize.
func WithWindowSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.windowSize = min(n, MaxWindowSize)
		}
	}
}

// WithClassifier sets the kind classifier used when messages arrive untyped.
func WithClassifier(c classify.Classifier) Option {
	return func(s *Store) { s.classifier = c }
}

// WithSemanticSearch wires the embedding and vector collaborators. Search
// degrades silently to lexical scoring when either is absent or failing.
func WithSemanticSearch(e embeddings.Embedder, v vector.Driver) Option {
	return func(s *Store) {
		s.embedder = e
		s.vectors = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a session store for the given session id.
func NewStore(sessionID string, opts ...Option) *Store {
	now := time.Now()
	s := &Store{
		id:           sessionID,
		preferences:  make(map[string]record.Record),
		topics:       make(map[string]int),
		windowSize:   DefaultWindowSize,
		startedAt:    now,
		lastActivity: now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Store) ID() string { return s.id }

// AddMessage appends a message to the context window, maintaining the
// eviction invariant and the topic/goal side effects. When kind is empty the
// classifier (or its lexical fallback) decides.
func (s *Store) AddMessage(ctx context.Context, content string, kind record.Kind) (record.Record, error) {
	if kind == "" {
		kind = s.classifyKind(ctx, content)
	}

	r, err := record.New(content, record.SessionScope(s.id), record.WithKind(kind))
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	s.window = append(s.window, r)
	s.trimWindow()
	s.trackTopics(content)
	s.detectGoal(content)
	s.interactions++
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.index(ctx, r)

	return r, nil
}

// AddTemporaryPreference records an ephemeral preference for this session.
func (s *Store) AddTemporaryPreference(content string, importance record.Importance) (record.Record, error) {
	r, err := record.New(content, record.SessionScope(s.id),
		record.WithKind(record.KindPreference),
		record.WithImportance(importance),
	)
	if err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[r.ID] = r
	s.interactions++
	s.lastActivity = time.Now()
	return r, nil
}

// UpdateIntent replaces the current session intent.
func (s *Store) UpdateIntent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = text
	s.lastActivity = time.Now()
}

// UpdateMood replaces the current session mood.
func (s *Store) UpdateMood(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mood = text
	s.lastActivity = time.Now()
}

// RecordResponseTime adds a response-time sample to the running statistics.
func (s *Store) RecordResponseTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responseTimes = append(s.responseTimes, d)
}

// RecentMessages returns up to n window messages in chronological order,
// newest last. The window itself is importance-ordered after an overflow, so
// recency is recovered by creation time.
func (s *Store) RecentMessages(n int) []record.Record {
	s.mu.Lock()
	chronological := make([]record.Record, len(s.window))
	copy(chronological, s.window)
	s.mu.Unlock()

	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].CreatedAt.Before(chronological[j].CreatedAt)
	})

	if n <= 0 || n > len(chronological) {
		n = len(chronological)
	}
	return chronological[len(chronological)-n:]
}

// Search ranks window and preference records against the query. The semantic
// path runs first when collaborators are wired; any failure falls back to
// lexical relevance without surfacing an error.
func (s *Store) Search(ctx context.Context, query string, limit int) []record.Record {
	s.mu.Lock()
	candidates := make([]record.Record, 0, len(s.window)+len(s.preferences))
	candidates = append(candidates, s.window...)
	for _, p := range s.preferences {
		candidates = append(candidates, p)
	}
	s.mu.Unlock()

	if ranked, ok := s.semanticSearch(ctx, query, candidates, limit); ok {
		return ranked
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore(query) > candidates[j].RelevanceScore(query)
	})

	out := candidates[:0:0]
	for _, c := range candidates {
		if c.RelevanceScore(query) <= 0 {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Expired reports whether the session has been idle past the 60-minute
// policy limit.
func (s *Store) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity) > idleExpiry
}

// Cleanup drops all session state. The store is unusable afterwards except
// for creating a fresh session under the same id.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window = nil
	s.preferences = make(map[string]record.Record)
	s.topics = make(map[string]int)
	s.goals = nil
	s.intent = ""
	s.mood = ""
	s.responseTimes = nil
	s.interactions = 0
}

// classifyKind asks the classifier, degrading to the lexical fallback when
// the collaborator is missing or errors.
func (s *Store) classifyKind(ctx context.Context, content string) record.Kind {
	if s.classifier != nil {
		if kind, err := s.classifier.Classify(ctx, content); err == nil {
			return kind
		}
	}
	return classify.Lexical{}.MustClassify(content)
}

// index pushes the message into the vector collaborator, best effort.
func (s *Store) index(ctx context.Context, r record.Record) {
	if s.embedder == nil || s.vectors == nil {
		return
	}

	embedding, err := s.embedder.Embed(ctx, r.Content)
	if err != nil {
		s.logger.Debug("embedding unavailable, message not vector-indexed",
			"session", s.id, "error", err)
		return
	}

	doc := vector.Document{ID: r.ID, Owner: s.id, Content: r.Content, Embedding: embedding}
	if err := s.vectors.Add(ctx, []vector.Document{doc}); err != nil {
		s.logger.Debug("vector index failed", "session", s.id, "error", err)
	}
}

// semanticSearch queries the vector collaborator and maps hits back onto the
// candidate set. The second return is false when the semantic path is
// unavailable.
func (s *Store) semanticSearch(ctx context.Context, query string, candidates []record.Record, limit int) ([]record.Record, bool) {
	if s.embedder == nil || s.vectors == nil {
		return nil, false
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, false
	}

	if limit <= 0 {
		limit = len(candidates)
	}
	hits, err := s.vectors.Query(ctx, s.id, embedding, limit)
	if err != nil {
		return nil, false
	}

	byID := make(map[string]record.Record, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	var out []record.Record
	for _, hit := range hits {
		if r, ok := byID[hit.ID]; ok {
			out = append(out, r)
		}
	}
	return out, true
}
