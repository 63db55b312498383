// Package eventstream defines the transport-neutral lifecycle events emitted
// by the memory engine and the Publisher interface backends implement.
package eventstream

import (
	"time"

	"github.com/strataco/strata/pkg/record"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCreated is emitted after a record is created.
	EventTypeCreated = "strata.record.created"

	// EventTypeUpdated is emitted after a record's content changes.
	EventTypeUpdated = "strata.record.updated"

	// EventTypeCompressed is emitted after a compression run supersedes
	// records.
	EventTypeCompressed = "strata.record.compressed"

	// EventTypeTransferred is emitted after a record moves between tiers.
	EventTypeTransferred = "strata.record.transferred"

	// EventTypeDeleted is emitted after a record is removed.
	EventTypeDeleted = "strata.record.deleted"
)

// RecordEvent is a transport-neutral lifecycle event payload.
type RecordEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Owner is the owning session/agent/user id.
	Owner string      `json:"owner"`
	Tier  record.Tier `json:"tier"`

	// RecordIDs are the records the event concerns; compression events list
	// the produced compressed record first.
	RecordIDs []string `json:"record_ids"`

	// Compression carries method and ratio for compressed events.
	Compression *CompressionMeta `json:"compression,omitempty"`
}

// CompressionMeta is the compressed-event payload extension.
type CompressionMeta struct {
	Method        record.Method `json:"method"`
	SupersededIDs []string      `json:"superseded_ids"`
	Ratio         float64       `json:"ratio"`
}
