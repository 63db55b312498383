// Package nop provides a no-op eventstream publisher for deployments without
// an event backend.
package nop

import (
	"context"

	"github.com/strataco/strata/pkg/eventstream"
)

// Publisher discards all events.
type Publisher struct{}

// NewPublisher creates a no-op publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish validates the payload and drops it.
func (*Publisher) Publish(_ context.Context, event *eventstream.RecordEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

// Close is a no-op.
func (*Publisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*Publisher)(nil)
