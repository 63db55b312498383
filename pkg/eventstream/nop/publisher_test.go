package nop

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/eventstream"
)

var _ = Describe("Publisher", func() {
	It("accepts and discards events", func() {
		p := NewPublisher()
		event := &eventstream.RecordEvent{
			EventType: eventstream.EventTypeCreated,
			Owner:     "session-1",
		}

		Expect(p.Publish(context.Background(), event)).To(Succeed())
		Expect(p.Close()).To(Succeed())
	})

	It("rejects a nil event", func() {
		p := NewPublisher()
		Expect(p.Publish(context.Background(), nil)).
			To(MatchError(eventstream.ErrNilEvent))
	})
})
