package agent

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
)

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore("agent-1", WithName("DevOps Agent"))
	})

	Describe("NewStore", func() {
		It("uses the agent id as the default name", func() {
			s := NewStore("agent-2")
			Expect(s.ID()).To(Equal("agent-2"))
			Expect(s.Name()).To(Equal("agent-2"))
		})

		It("honors WithName", func() {
			Expect(store.Name()).To(Equal("DevOps Agent"))
		})
	})

	Describe("DefineRole", func() {
		It("stores and returns the role definition", func() {
			store.DefineRole("manages deployments",
				[]string{"careful"}, []string{"deploy", "rollback"})

			role := store.Role()
			Expect(role.Description).To(Equal("manages deployments"))
			Expect(role.Traits).To(ConsistOf("careful"))
			Expect(role.Responsibilities).To(HaveLen(2))
		})
	})

	Describe("AddDomainKnowledge", func() {
		It("creates an agent-scoped semantic record with a title", func() {
			r, err := store.AddDomainKnowledge("rollouts",
				"canary rollouts reduce blast radius",
				record.ImportanceHigh, []string{"kubernetes", "deploy"})
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Scope).To(Equal(record.AgentScope("agent-1")))
			Expect(r.Kind).To(Equal(record.KindSemantic))
			Expect(r.Title()).To(Equal("rollouts"))
			Expect(store.KnowledgeCount()).To(Equal(1))
		})

		It("rejects empty content", func() {
			_, err := store.AddDomainKnowledge("empty", "",
				record.ImportanceMedium, nil)
			Expect(err).To(HaveOccurred())
			Expect(store.KnowledgeCount()).To(BeZero())
		})

		It("indexes the record by tag and importance", func() {
			r, err := store.AddDomainKnowledge("rollouts",
				"canary rollouts reduce blast radius",
				record.ImportanceHigh, []string{"kubernetes"})
			Expect(err).NotTo(HaveOccurred())

			store.mu.RLock()
			defer store.mu.RUnlock()
			Expect(store.topicIndex["kubernetes"]).To(HaveKey(r.ID))
			Expect(store.tagIndex["kubernetes"]).To(ContainElement(r.ID))
			Expect(store.importanceIndex[record.ImportanceHigh]).To(ContainElement(r.ID))
		})
	})

	Describe("AddTaskTemplate", func() {
		It("registers a procedural template by name", func() {
			r, err := store.AddTaskTemplate("deploy-service",
				"1. build image\n2. push\n3. apply manifests",
				record.ImportanceHigh)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Kind).To(Equal(record.KindProcedural))

			rec := store.GetTaskRecommendation("deploy")
			Expect(rec.Generic).To(BeFalse())
			Expect(rec.Template).To(ContainSubstring("apply manifests"))
		})
	})

	Describe("AddBestPractice", func() {
		It("registers a high-importance practice", func() {
			r, err := store.AddBestPractice("small changes",
				"prefer many small deploys over one big one",
				[]string{"deploy"})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Importance).To(Equal(record.ImportanceHigh))
		})
	})

	Describe("Accept", func() {
		It("rescopes the record to this agent and files it as knowledge", func() {
			orig, err := record.New("user prefers staging before prod",
				record.SessionScope("session-9"),
				record.WithKind(record.KindPreference),
				record.WithImportance(record.ImportanceHigh))
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Accept(context.Background(), orig)).To(Succeed())

			kept, ok := store.Knowledge(orig.ID)
			Expect(ok).To(BeTrue())
			Expect(kept.Scope).To(Equal(record.AgentScope("agent-1")))
		})
	})

	Describe("ReplaceKnowledge", func() {
		It("swaps superseded records for replacements atomically", func() {
			a, err := store.AddDomainKnowledge("a", "memory a content here",
				record.ImportanceLow, []string{"notes"})
			Expect(err).NotTo(HaveOccurred())
			b, err := store.AddDomainKnowledge("b", "memory b content here",
				record.ImportanceLow, []string{"notes"})
			Expect(err).NotTo(HaveOccurred())

			merged, err := record.New("merged notes content",
				record.AgentScope("agent-1"),
				record.WithTags("notes"))
			Expect(err).NotTo(HaveOccurred())

			store.ReplaceKnowledge([]string{a.ID, b.ID}, []record.Record{merged})

			Expect(store.KnowledgeCount()).To(Equal(1))
			_, ok := store.Knowledge(a.ID)
			Expect(ok).To(BeFalse())
			_, ok = store.Knowledge(b.ID)
			Expect(ok).To(BeFalse())
			_, ok = store.Knowledge(merged.ID)
			Expect(ok).To(BeTrue())

			store.mu.RLock()
			defer store.mu.RUnlock()
			Expect(store.tagIndex["notes"]).To(ConsistOf(merged.ID))
		})
	})

	Describe("CreateBackup", func() {
		It("snapshots knowledge isolated from later mutations", func() {
			r, err := store.AddDomainKnowledge("rollouts",
				"canary rollouts reduce blast radius",
				record.ImportanceHigh, []string{"kubernetes"})
			Expect(err).NotTo(HaveOccurred())
			store.RecordTaskExecution("deploy", 100, true)

			backup := store.CreateBackup()
			Expect(backup.AgentID).To(Equal("agent-1"))
			Expect(backup.AgentName).To(Equal("DevOps Agent"))
			Expect(backup.Knowledge).To(HaveKey(r.ID))
			Expect(backup.Executions).To(HaveLen(1))

			store.ReplaceKnowledge([]string{r.ID}, nil)
			Expect(backup.Knowledge).To(HaveKey(r.ID))
		})
	})
})
