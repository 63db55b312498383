package session

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/vector"
)

// queryResultFor maps a record onto a vector hit for the mock driver.
func queryResultFor(r record.Record) vector.QueryResult {
	return vector.QueryResult{
		Document: vector.Document{ID: r.ID, Owner: r.Scope.Owner, Content: r.Content},
		Score:    0.99,
	}
}

// collectingTarget gathers accepted records, optionally failing on matching
// content.
type collectingTarget struct {
	accepted []record.Record
	failOn   string
}

func (t *collectingTarget) Accept(_ context.Context, r record.Record) error {
	if t.failOn != "" && r.Content == t.failOn {
		return fmt.Errorf("refusing %q", r.Content)
	}
	t.accepted = append(t.accepted, r)
	return nil
}

var _ = Describe("Transfer", func() {
	var (
		s      *Store
		target *collectingTarget
		ctx    context.Context
	)

	BeforeEach(func() {
		s = NewStore("sess-transfer")
		target = &collectingTarget{}
		ctx = context.Background()
	})

	It("requires a target", func() {
		_, err := s.Transfer(ctx, nil)
		Expect(err).To(HaveOccurred())
	})

	It("moves high-importance preferences", func() {
		_, err := s.AddTemporaryPreference("always answer in spanish", record.ImportanceHigh)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.AddTemporaryPreference("ephemeral formatting quirk", record.ImportanceLow)
		Expect(err).NotTo(HaveOccurred())

		result, err := s.Transfer(ctx, target)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Transferred).To(Equal(1))
		Expect(target.accepted).To(HaveLen(1))
		Expect(target.accepted[0].Content).To(Equal("always answer in spanish"))
	})

	It("leaves ordinary window records behind", func() {
		_, err := s.AddMessage(ctx, "medium importance chatter", record.KindContextual)
		Expect(err).NotTo(HaveOccurred())

		result, err := s.Transfer(ctx, target)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Transferred).To(BeZero())
	})

	It("does not consume the window", func() {
		_, _ = s.AddMessage(ctx, "window survives transfers", record.KindContextual)

		_, err := s.Transfer(ctx, target)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Window()).To(HaveLen(1))
	})

	It("skips failing records without aborting the batch", func() {
		_, _ = s.AddTemporaryPreference("first preference", record.ImportanceHigh)
		_, _ = s.AddTemporaryPreference("second preference", record.ImportanceCritical)
		target.failOn = "first preference"

		result, err := s.Transfer(ctx, target)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Transferred).To(Equal(1))
		Expect(target.accepted).To(HaveLen(1))
		Expect(target.accepted[0].Content).To(Equal("second preference"))
	})

	Context("with more than ten interactions", func() {
		BeforeEach(func() {
			for i := range 11 {
				_, err := s.AddMessage(ctx, fmt.Sprintf("kubernetes discussion number %d", i), record.KindContextual)
				Expect(err).NotTo(HaveOccurred())
			}
			s.UpdateIntent("troubleshooting")
		})

		It("also transfers a synthesized episodic summary", func() {
			_, _ = s.AddTemporaryPreference("keep answers short", record.ImportanceHigh)

			result, err := s.Transfer(ctx, target)
			Expect(err).NotTo(HaveOccurred())

			// One preference plus the synthesized summary.
			Expect(result.Transferred).To(Equal(2))
			Expect(result.Summary).NotTo(BeEmpty())
			Expect(result.Summary).To(ContainSubstring("kubernetes"))
			Expect(result.Summary).To(ContainSubstring("troubleshooting"))

			var summaryRecord *record.Record
			for i := range target.accepted {
				if target.accepted[i].Kind == record.KindEpisodic {
					summaryRecord = &target.accepted[i]
				}
			}
			Expect(summaryRecord).NotTo(BeNil())
			Expect(summaryRecord.Importance).To(Equal(record.ImportanceHigh))
			Expect(summaryRecord.Content).To(Equal(result.Summary))
		})

		It("counts the summary in the transfer total even with nothing else to move", func() {
			result, err := s.Transfer(ctx, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Transferred).To(Equal(1))
			Expect(result.Summary).NotTo(BeEmpty())
		})
	})
})
