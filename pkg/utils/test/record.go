package testutils

import (
	"fmt"
	"time"

	"github.com/strataco/strata/pkg/record"
)

// NewTestRecord creates a session-scoped record for testing, panicking on
// validation failure so test setup stays terse.
func NewTestRecord(content string, importance record.Importance, opts ...record.Option) record.Record {
	opts = append([]record.Option{record.WithImportance(importance)}, opts...)
	r, err := record.New(content, record.SessionScope("test-session"), opts...)
	if err != nil {
		panic(fmt.Sprintf("building test record: %v", err))
	}
	return r
}

// NewAgedRecord creates a test record whose CreatedAt lies age in the past.
func NewAgedRecord(content string, importance record.Importance, age time.Duration, opts ...record.Option) record.Record {
	r := NewTestRecord(content, importance, opts...)
	r.CreatedAt = time.Now().Add(-age)
	r.UpdatedAt = r.CreatedAt
	r.LastAccessedAt = r.CreatedAt
	return r
}
