package lifecycle

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/compress"
	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/storage/inmemory"
)

var _ = Describe("Pool", func() {
	newManager := func(sink *inmemory.Driver, workers, queue uint) *Manager {
		engine, err := compress.NewEngine(compress.Config{})
		Expect(err).NotTo(HaveOccurred())

		m, err := NewManager(Config{
			Sink:       sink,
			Engine:     engine,
			NumWorkers: workers,
			QueueSize:  queue,
		})
		Expect(err).NotTo(HaveOccurred())
		return m
	}

	Describe("Enqueue", func() {
		It("runs a queued compression sweep to completion on Close", func() {
			ctx := context.Background()
			sink := inmemory.NewDriver()
			manager := newManager(sink, 1, 8)

			for i := 0; i < 3; i++ {
				r, err := record.New("Memory X",
					record.SessionScope("session-1"),
					record.WithImportance(record.ImportanceLow))
				Expect(err).NotTo(HaveOccurred())
				Expect(manager.SaveRecord(ctx, r)).To(Succeed())
			}

			Expect(manager.EnqueueCompact("session-1")).To(BeTrue())
			Expect(manager.Close()).To(Succeed())

			remaining, err := sink.ListByOwner(ctx, "session-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
		})

		It("runs a queued session transfer to completion on Close", func() {
			sink := inmemory.NewDriver()
			manager := newManager(sink, 1, 8)

			s := manager.Session("session-1")
			_, err := s.AddTemporaryPreference("user prefers staging before prod",
				record.ImportanceHigh)
			Expect(err).NotTo(HaveOccurred())

			Expect(manager.EnqueueEndSession("session-1", "agent-1")).To(BeTrue())
			Expect(manager.Close()).To(Succeed())

			Expect(manager.Agent("agent-1").KnowledgeCount()).To(Equal(1))
		})

		It("runs a queued eviction sweep without touching active sessions", func() {
			sink := inmemory.NewDriver()
			manager := newManager(sink, 1, 8)

			active := manager.Session("session-1")

			Expect(manager.EnqueueEvictSessions()).To(BeTrue())
			Expect(manager.Close()).To(Succeed())

			Expect(manager.Session("session-1")).To(BeIdenticalTo(active))
		})
	})
})
