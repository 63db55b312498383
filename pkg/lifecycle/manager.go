// Package lifecycle wires the memory tiers to the compression engine, the
// persisted-record sink, and the event stream, and runs background
// maintenance off the callers' path via a worker pool.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strataco/strata/pkg/agent"
	"github.com/strataco/strata/pkg/compress"
	"github.com/strataco/strata/pkg/eventstream"
	"github.com/strataco/strata/pkg/eventstream/nop"
	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/session"
	"github.com/strataco/strata/pkg/storage"
)

// Config is the configuration options for the lifecycle manager.
type Config struct {
	// Sink is the persisted-record store backing durability. Required.
	Sink storage.Driver

	// Engine runs compression sweeps. Required.
	Engine *compress.Engine

	// Events receives lifecycle events. Defaults to the nop publisher.
	Events eventstream.Publisher

	// SessionOptions apply to every session store the manager creates.
	SessionOptions []session.Option

	// AgentOptions apply to every agent store the manager creates.
	AgentOptions []agent.Option

	// NumWorkers and QueueSize tune the background pool.
	NumWorkers uint
	QueueSize  uint

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Manager owns the per-owner store registries and the background pool.
// Stores for different owners never share a lock; lookups go through
// sync.Map so concurrent sessions and agents proceed independently.
type Manager struct {
	config Config

	sessions sync.Map // session id -> *session.Store
	agents   sync.Map // agent id -> *agent.Store

	pool   *Pool
	logger *slog.Logger
}

// NewManager creates a lifecycle manager and starts its worker pool.
func NewManager(config Config) (*Manager, error) {
	if config.Sink == nil {
		return nil, fmt.Errorf("lifecycle manager requires a storage sink")
	}
	if config.Engine == nil {
		return nil, fmt.Errorf("lifecycle manager requires a compression engine")
	}
	if config.Events == nil {
		config.Events = nop.NewPublisher()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	m := &Manager{
		config: config,
		logger: config.Logger,
	}

	pool, err := NewPool(&PoolConfig{
		Manager:    m,
		NumWorkers: config.NumWorkers,
		QueueSize:  config.QueueSize,
		Logger:     config.Logger,
	})
	if err != nil {
		return nil, err
	}
	m.pool = pool

	return m, nil
}

// Session returns the store for the session id, creating it on first use.
func (m *Manager) Session(sessionID string) *session.Store {
	if s, ok := m.sessions.Load(sessionID); ok {
		return s.(*session.Store)
	}

	opts := append([]session.Option{session.WithLogger(m.logger)}, m.config.SessionOptions...)
	created := session.NewStore(sessionID, opts...)
	actual, _ := m.sessions.LoadOrStore(sessionID, created)
	return actual.(*session.Store)
}

// Agent returns the store for the agent id, creating it on first use. Agent
// stores are long-lived and never auto-expire.
func (m *Manager) Agent(agentID string) *agent.Store {
	if a, ok := m.agents.Load(agentID); ok {
		return a.(*agent.Store)
	}

	opts := append([]agent.Option{agent.WithLogger(m.logger)}, m.config.AgentOptions...)
	created := agent.NewStore(agentID, opts...)
	actual, _ := m.agents.LoadOrStore(agentID, created)
	return actual.(*agent.Store)
}

// SaveRecord persists a record to the sink and emits a created event.
func (m *Manager) SaveRecord(ctx context.Context, r record.Record) error {
	if err := m.config.Sink.Put(ctx, r); err != nil {
		return fmt.Errorf("persisting record %s: %w", r.ID, err)
	}

	m.emit(ctx, &eventstream.RecordEvent{
		EventType: eventstream.EventTypeCreated,
		Owner:     r.Scope.Owner,
		Tier:      r.Scope.Tier,
		RecordIDs: []string{r.ID},
	})
	return nil
}

// UpdateRecord persists a content update and emits an updated event.
func (m *Manager) UpdateRecord(ctx context.Context, id, content string) (record.Record, error) {
	current, err := m.config.Sink.Get(ctx, id)
	if err != nil {
		return record.Record{}, err
	}

	updated, err := current.RecordUpdate(content)
	if err != nil {
		return record.Record{}, err
	}

	if err := m.config.Sink.Put(ctx, updated); err != nil {
		return record.Record{}, fmt.Errorf("persisting record %s: %w", id, err)
	}

	m.emit(ctx, &eventstream.RecordEvent{
		EventType: eventstream.EventTypeUpdated,
		Owner:     updated.Scope.Owner,
		Tier:      updated.Scope.Tier,
		RecordIDs: []string{updated.ID},
	})
	return updated, nil
}

// DeleteRecord removes a record from the sink and emits a deleted event.
func (m *Manager) DeleteRecord(ctx context.Context, id string) error {
	r, err := m.config.Sink.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := m.config.Sink.Delete(ctx, id); err != nil {
		return err
	}

	m.emit(ctx, &eventstream.RecordEvent{
		EventType: eventstream.EventTypeDeleted,
		Owner:     r.Scope.Owner,
		Tier:      r.Scope.Tier,
		RecordIDs: []string{id},
	})
	return nil
}

// Compact runs one compression sweep over an owner's persisted records:
// eligible records are compressed, compressed records persisted, superseded
// originals deleted, and one compressed event emitted per produced record.
func (m *Manager) Compact(ctx context.Context, owner string) (compress.Result, error) {
	records, err := m.config.Sink.ListByOwner(ctx, owner)
	if err != nil {
		return compress.Result{}, fmt.Errorf("listing records for %s: %w", owner, err)
	}

	result := m.config.Engine.Run(records)

	for _, c := range result.Compressed {
		if err := m.config.Sink.Put(ctx, c.Record); err != nil {
			m.logger.Warn("compacted record not persisted",
				"owner", owner, "record", c.ID, "error", err)
			continue
		}

		for _, id := range c.OriginalIDs {
			if err := m.config.Sink.Delete(ctx, id); err != nil {
				m.logger.Warn("superseded record not deleted",
					"owner", owner, "record", id, "error", err)
			}
		}

		m.emit(ctx, &eventstream.RecordEvent{
			EventType: eventstream.EventTypeCompressed,
			Owner:     c.Scope.Owner,
			Tier:      c.Scope.Tier,
			RecordIDs: append([]string{c.ID}, c.OriginalIDs...),
			Compression: &eventstream.CompressionMeta{
				Method:        c.Method,
				SupersededIDs: c.OriginalIDs,
				Ratio:         c.Ratio,
			},
		})
	}

	return result, nil
}

// EndSession transfers the session's high-value records into the target
// agent, persists them, emits transferred events, and destroys the session.
func (m *Manager) EndSession(ctx context.Context, sessionID, targetAgentID string) (session.TransferResult, error) {
	s, ok := m.sessions.Load(sessionID)
	if !ok {
		return session.TransferResult{}, storage.NotFoundError{ID: sessionID}
	}
	store := s.(*session.Store)

	target := m.Agent(targetAgentID)
	result, err := store.Transfer(ctx, transferTarget{m: m, agent: target})
	if err != nil {
		return result, err
	}

	store.Cleanup()
	m.sessions.Delete(sessionID)
	return result, nil
}

// EvictExpiredSessions destroys every session idle past the policy limit and
// returns how many were removed.
func (m *Manager) EvictExpiredSessions() int {
	evicted := 0
	m.sessions.Range(func(key, value any) bool {
		store := value.(*session.Store)
		if store.Expired() {
			store.Cleanup()
			m.sessions.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}

// EnqueueCompact schedules a background compression sweep for an owner.
// Returns false when the queue is full and the job was dropped.
func (m *Manager) EnqueueCompact(owner string) bool {
	return m.pool.Enqueue(Job{Kind: JobCompact, Owner: owner})
}

// EnqueueEndSession schedules a background session transfer and cleanup.
func (m *Manager) EnqueueEndSession(sessionID, targetAgentID string) bool {
	return m.pool.Enqueue(Job{Kind: JobEndSession, Owner: sessionID, Target: targetAgentID})
}

// EnqueueEvictSessions schedules a background sweep of idle-expired sessions.
// Callers run it periodically; each sweep is independent.
func (m *Manager) EnqueueEvictSessions() bool {
	return m.pool.Enqueue(Job{Kind: JobEvictSessions})
}

// Close drains the worker pool and closes the publisher and sink.
func (m *Manager) Close() error {
	m.pool.Close()

	if err := m.config.Events.Close(); err != nil {
		m.logger.Warn("event publisher close failed", "error", err)
	}
	return m.config.Sink.Close()
}

// emit publishes a lifecycle event, best effort.
func (m *Manager) emit(ctx context.Context, event *eventstream.RecordEvent) {
	event.SchemaVersion = eventstream.SchemaVersionV1
	event.EventID = uuid.NewString()
	event.EmittedAt = time.Now()

	if err := m.config.Events.Publish(ctx, event); err != nil {
		m.logger.Warn("lifecycle event not published",
			"event_type", event.EventType, "owner", event.Owner, "error", err)
	}
}

// transferTarget routes transferred records into the agent store and the
// sink, emitting one transferred event per record.
type transferTarget struct {
	m     *Manager
	agent *agent.Store
}

func (t transferTarget) Accept(ctx context.Context, r record.Record) error {
	if err := t.agent.Accept(ctx, r); err != nil {
		return err
	}

	rescoped := r
	rescoped.Scope = record.AgentScope(t.agent.ID())
	if err := t.m.config.Sink.Put(ctx, rescoped); err != nil {
		return err
	}

	t.m.emit(ctx, &eventstream.RecordEvent{
		EventType: eventstream.EventTypeTransferred,
		Owner:     t.agent.ID(),
		Tier:      record.TierAgent,
		RecordIDs: []string{r.ID},
	})
	return nil
}
