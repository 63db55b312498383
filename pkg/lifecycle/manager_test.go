package lifecycle

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/compress"
	"github.com/strataco/strata/pkg/eventstream"
	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/storage"
	"github.com/strataco/strata/pkg/storage/inmemory"
)

// capturingPublisher retains every published event for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []eventstream.RecordEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event *eventstream.RecordEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) byType(eventType string) []eventstream.RecordEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []eventstream.RecordEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ = Describe("Manager", func() {
	var (
		ctx     context.Context
		sink    *inmemory.Driver
		events  *capturingPublisher
		manager *Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		sink = inmemory.NewDriver()
		events = &capturingPublisher{}

		engine, err := compress.NewEngine(compress.Config{})
		Expect(err).NotTo(HaveOccurred())

		manager, err = NewManager(Config{
			Sink:   sink,
			Engine: engine,
			Events: events,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(manager.Close()).To(Succeed())
	})

	Describe("NewManager", func() {
		It("requires a sink", func() {
			engine, err := compress.NewEngine(compress.Config{})
			Expect(err).NotTo(HaveOccurred())

			_, err = NewManager(Config{Engine: engine})
			Expect(err).To(HaveOccurred())
		})

		It("requires an engine", func() {
			_, err := NewManager(Config{Sink: inmemory.NewDriver()})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Session and Agent registries", func() {
		It("returns the same session store for the same id", func() {
			first := manager.Session("session-1")
			Expect(manager.Session("session-1")).To(BeIdenticalTo(first))
			Expect(manager.Session("session-2")).NotTo(BeIdenticalTo(first))
		})

		It("returns the same agent store for the same id", func() {
			first := manager.Agent("agent-1")
			Expect(manager.Agent("agent-1")).To(BeIdenticalTo(first))
		})
	})

	Describe("SaveRecord", func() {
		It("persists the record and emits a created event", func() {
			r, err := record.New("deploys run from the main branch",
				record.SessionScope("session-1"))
			Expect(err).NotTo(HaveOccurred())

			Expect(manager.SaveRecord(ctx, r)).To(Succeed())

			stored, err := sink.Get(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Content).To(Equal(r.Content))

			created := events.byType(eventstream.EventTypeCreated)
			Expect(created).To(HaveLen(1))
			Expect(created[0].Owner).To(Equal("session-1"))
			Expect(created[0].RecordIDs).To(ConsistOf(r.ID))
			Expect(created[0].SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
			Expect(created[0].EventID).NotTo(BeEmpty())
		})
	})

	Describe("UpdateRecord", func() {
		It("persists new content and emits an updated event", func() {
			r, err := record.New("deploys run from the main branch",
				record.SessionScope("session-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.SaveRecord(ctx, r)).To(Succeed())

			updated, err := manager.UpdateRecord(ctx, r.ID, "deploys run from release tags")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Content).To(Equal("deploys run from release tags"))

			stored, err := sink.Get(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Content).To(Equal("deploys run from release tags"))
			Expect(events.byType(eventstream.EventTypeUpdated)).To(HaveLen(1))
		})

		It("fails for an unknown id", func() {
			_, err := manager.UpdateRecord(ctx, "missing", "new content")
			Expect(err).To(BeAssignableToTypeOf(storage.NotFoundError{}))
		})
	})

	Describe("DeleteRecord", func() {
		It("removes the record and emits a deleted event", func() {
			r, err := record.New("deploys run from the main branch",
				record.SessionScope("session-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.SaveRecord(ctx, r)).To(Succeed())

			Expect(manager.DeleteRecord(ctx, r.ID)).To(Succeed())

			_, err = sink.Get(ctx, r.ID)
			Expect(err).To(HaveOccurred())
			Expect(events.byType(eventstream.EventTypeDeleted)).To(HaveLen(1))
		})
	})

	Describe("Compact", func() {
		It("replaces duplicate records with one compressed record", func() {
			var originals []string
			for i := 0; i < 3; i++ {
				r, err := record.New("Memory X",
					record.SessionScope("session-1"),
					record.WithImportance(record.ImportanceLow))
				Expect(err).NotTo(HaveOccurred())
				Expect(manager.SaveRecord(ctx, r)).To(Succeed())
				originals = append(originals, r.ID)
			}

			result, err := manager.Compact(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Compressed).To(HaveLen(1))
			Expect(result.SupersededIDs).To(ConsistOf(originals))
			Expect(result.Stats.OriginalCount).To(Equal(3))
			Expect(result.Stats.CompressedCount).To(Equal(1))

			// Originals are gone, only the compressed record remains.
			for _, id := range originals {
				_, err := sink.Get(ctx, id)
				Expect(err).To(HaveOccurred())
			}
			remaining, err := sink.ListByOwner(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].ID).To(Equal(result.Compressed[0].ID))
		})

		It("emits one compressed event per produced record", func() {
			for i := 0; i < 3; i++ {
				r, err := record.New("Memory X",
					record.SessionScope("session-1"),
					record.WithImportance(record.ImportanceLow))
				Expect(err).NotTo(HaveOccurred())
				Expect(manager.SaveRecord(ctx, r)).To(Succeed())
			}

			result, err := manager.Compact(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())

			compressed := events.byType(eventstream.EventTypeCompressed)
			Expect(compressed).To(HaveLen(1))
			Expect(compressed[0].Compression).NotTo(BeNil())
			Expect(compressed[0].Compression.SupersededIDs).To(HaveLen(3))
			Expect(compressed[0].RecordIDs[0]).To(Equal(result.Compressed[0].ID))
		})

		It("leaves the sink untouched when nothing is eligible", func() {
			r, err := record.New("deploys must pass the smoke suite first",
				record.SessionScope("session-1"),
				record.WithImportance(record.ImportanceCritical))
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.SaveRecord(ctx, r)).To(Succeed())

			result, err := manager.Compact(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Compressed).To(BeEmpty())

			remaining, err := sink.ListByOwner(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
		})
	})

	Describe("EndSession", func() {
		It("moves high-value session records into the agent and destroys the session", func() {
			s := manager.Session("session-1")
			_, err := s.AddTemporaryPreference("user prefers staging before prod",
				record.ImportanceHigh)
			Expect(err).NotTo(HaveOccurred())

			result, err := manager.EndSession(ctx, "session-1", "agent-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Transferred).To(Equal(1))

			Expect(manager.Agent("agent-1").KnowledgeCount()).To(Equal(1))

			// The registry entry is gone; the next lookup is a fresh store.
			Expect(manager.Session("session-1")).NotTo(BeIdenticalTo(s))
		})

		It("persists transferred records under the agent and emits transferred events", func() {
			s := manager.Session("session-1")
			pref, err := s.AddTemporaryPreference("user prefers staging before prod",
				record.ImportanceHigh)
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.EndSession(ctx, "session-1", "agent-1")
			Expect(err).NotTo(HaveOccurred())

			stored, err := sink.Get(ctx, pref.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Scope).To(Equal(record.AgentScope("agent-1")))

			transferred := events.byType(eventstream.EventTypeTransferred)
			Expect(transferred).To(HaveLen(1))
			Expect(transferred[0].Owner).To(Equal("agent-1"))
		})

		It("fails for an unknown session", func() {
			_, err := manager.EndSession(ctx, "missing", "agent-1")
			Expect(err).To(BeAssignableToTypeOf(storage.NotFoundError{}))
		})
	})

	Describe("EvictExpiredSessions", func() {
		It("removes nothing when every session is active", func() {
			manager.Session("session-1")
			manager.Session("session-2")
			Expect(manager.EvictExpiredSessions()).To(BeZero())
		})
	})
})
