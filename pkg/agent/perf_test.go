package agent

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
)

var _ = Describe("Performance tracking", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore("agent-1")
	})

	Describe("RecordTaskExecution", func() {
		It("seeds the per-task average with the first duration", func() {
			store.RecordTaskExecution("deploy", 10*time.Second, true)

			avg, ok := store.AvgTaskDuration("deploy")
			Expect(ok).To(BeTrue())
			Expect(avg).To(Equal(10 * time.Second))
		})

		It("updates the per-task average as a moving average", func() {
			store.RecordTaskExecution("deploy", 10*time.Second, true)
			store.RecordTaskExecution("deploy", 20*time.Second, true)

			// 10s*0.9 + 20s*0.1 = 11s
			avg, ok := store.AvgTaskDuration("deploy")
			Expect(ok).To(BeTrue())
			Expect(avg).To(Equal(11 * time.Second))
		})

		It("tracks task types independently", func() {
			store.RecordTaskExecution("deploy", 10*time.Second, true)
			store.RecordTaskExecution("triage", 2*time.Second, true)

			avg, ok := store.AvgTaskDuration("triage")
			Expect(ok).To(BeTrue())
			Expect(avg).To(Equal(2 * time.Second))

			_, ok = store.AvgTaskDuration("unknown")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("GeneratePerformanceReport", func() {
		It("reports zero rates before any execution", func() {
			report := store.GeneratePerformanceReport()
			Expect(report.AgentID).To(Equal("agent-1"))
			Expect(report.TotalExecutions).To(BeZero())
			Expect(report.SuccessRate).To(BeZero())
			Expect(report.AvgResponseTime).To(BeZero())
		})

		It("computes exact success rate and average response time", func() {
			store.RecordTaskExecution("deploy", 10*time.Second, true)
			store.RecordTaskExecution("deploy", 20*time.Second, false)
			store.RecordTaskExecution("triage", 30*time.Second, true)
			store.RecordTaskExecution("triage", 40*time.Second, true)

			report := store.GeneratePerformanceReport()
			Expect(report.TotalExecutions).To(Equal(4))
			Expect(report.SuccessfulExecutions).To(Equal(3))
			Expect(report.SuccessRate).To(BeNumerically("~", 75.0, 0.001))
			Expect(report.AvgResponseTime).To(Equal(25 * time.Second))
			Expect(report.TaskDistribution).To(HaveKeyWithValue("deploy", 2))
			Expect(report.TaskDistribution).To(HaveKeyWithValue("triage", 2))
		})

		It("lists distinct knowledge tags as domain coverage", func() {
			_, err := store.AddDomainKnowledge("a", "kubernetes deploy notes",
				record.ImportanceMedium, []string{"kubernetes", "deploy"})
			Expect(err).NotTo(HaveOccurred())
			_, err = store.AddDomainKnowledge("b", "more kubernetes notes",
				record.ImportanceMedium, []string{"kubernetes"})
			Expect(err).NotTo(HaveOccurred())

			report := store.GeneratePerformanceReport()
			Expect(report.DomainCoverage).To(Equal([]string{"deploy", "kubernetes"}))
		})
	})
})
