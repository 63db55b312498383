package agent

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
)

var _ = Describe("SearchDomainKnowledge", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore("agent-1")
	})

	It("returns nothing when no record matches", func() {
		_, err := store.AddDomainKnowledge("rollouts",
			"canary rollouts reduce blast radius",
			record.ImportanceMedium, []string{"kubernetes"})
		Expect(err).NotTo(HaveOccurred())

		Expect(store.SearchDomainKnowledge("database", 10)).To(BeEmpty())
	})

	It("weights content, tag, and title matches additively", func() {
		r, err := store.AddDomainKnowledge("kubernetes rollouts",
			"kubernetes canary rollouts reduce blast radius",
			record.ImportanceMedium, []string{"kubernetes"})
		Expect(err).NotTo(HaveOccurred())

		results := store.SearchDomainKnowledge("kubernetes", 10)
		Expect(results).To(HaveLen(1))
		Expect(results[0].Record.ID).To(Equal(r.ID))
		// content 1.0 + tag 0.5 + title 0.8
		Expect(results[0].Relevance).To(BeNumerically("~", 2.3, 0.001))
	})

	It("matches case-insensitively", func() {
		_, err := store.AddDomainKnowledge("Postgres tuning",
			"increase shared_buffers for OLTP workloads",
			record.ImportanceMedium, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(store.SearchDomainKnowledge("POSTGRES", 10)).To(HaveLen(1))
	})

	It("orders by importance first, relevance second", func() {
		// Tag-only match, but critical.
		critical, err := store.AddDomainKnowledge("outage playbook",
			"page the on-call and open an incident channel",
			record.ImportanceCritical, []string{"deploy"})
		Expect(err).NotTo(HaveOccurred())

		// Content + tag + title match, but medium.
		relevant, err := store.AddDomainKnowledge("deploy checklist",
			"deploy only after the smoke suite passes",
			record.ImportanceMedium, []string{"deploy"})
		Expect(err).NotTo(HaveOccurred())

		results := store.SearchDomainKnowledge("deploy", 10)
		Expect(results).To(HaveLen(2))
		Expect(results[0].Record.ID).To(Equal(critical.ID))
		Expect(results[1].Record.ID).To(Equal(relevant.ID))
	})

	It("truncates to the limit", func() {
		for _, title := range []string{"one", "two", "three"} {
			_, err := store.AddDomainKnowledge(title,
				"retry transient failures with backoff",
				record.ImportanceMedium, nil)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(store.SearchDomainKnowledge("backoff", 2)).To(HaveLen(2))
	})
})
