// Package storage
package storage

import (
	"context"

	"github.com/strataco/strata/pkg/record"
)

// Driver is the generic persisted-record sink backing the durability of any
// memory tier. The engine treats it as an external collaborator: it only
// needs id-keyed put/get/delete and an owner listing.
type Driver interface {
	// Put stores or replaces a record by id.
	Put(ctx context.Context, r record.Record) error

	// Get retrieves a record by id. Returns NotFoundError when absent.
	Get(ctx context.Context, id string) (record.Record, error)

	// Delete removes a record by id. Returns NotFoundError when absent.
	Delete(ctx context.Context, id string) error

	// ListByOwner returns every record scoped to the given owner id.
	ListByOwner(ctx context.Context, owner string) ([]record.Record, error)

	// Close closes the store and releases any resources.
	Close() error
}
