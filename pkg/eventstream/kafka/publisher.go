// Package kafka implements the eventstream.Publisher on Apache Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/strataco/strata/pkg/eventstream"
)

const (
	// DefaultTopic is the topic record lifecycle events publish to.
	DefaultTopic = "strata.records"

	defaultBatchTimeout = 100 * time.Millisecond
)

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers are the Kafka bootstrap addresses. Required.
	Brokers []string

	// Topic defaults to DefaultTopic when empty.
	Topic string
}

// Publisher writes lifecycle events to a Kafka topic, keyed by owner so one
// owner's events stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: defaultBatchTimeout,
		RequiredAcks: kafkago.RequireOne,
	}

	return &Publisher{writer: writer}, nil
}

// Publish serializes the event as JSON and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.RecordEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", event.EventID, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Owner),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing event %s: %w", event.EventID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
