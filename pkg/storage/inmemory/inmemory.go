// Package inmemory implements storage.Driver using in-process maps. It backs
// tests and local development; durable deployments use the sqlite or
// postgres drivers.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu guards records and the owner index together.
	mu sync.RWMutex

	// records maps record id to the stored record.
	records map[string]record.Record

	// byOwner maps owner id to the set of record ids it owns.
	byOwner map[string]map[string]bool
}

// NewDriver creates a new in-memory record sink.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[string]record.Record),
		byOwner: make(map[string]map[string]bool),
	}
}

// Put stores or replaces a record by id.
func (d *Driver) Put(_ context.Context, r record.Record) error {
	if r.ID == "" {
		return errors.New("cannot store record without id")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Re-homing a record moves it between owner sets.
	if prev, ok := d.records[r.ID]; ok && prev.Scope.Owner != r.Scope.Owner {
		delete(d.byOwner[prev.Scope.Owner], r.ID)
	}

	d.records[r.ID] = r

	set, ok := d.byOwner[r.Scope.Owner]
	if !ok {
		set = make(map[string]bool)
		d.byOwner[r.Scope.Owner] = set
	}
	set[r.ID] = true

	return nil
}

// Get retrieves a record by its id.
func (d *Driver) Get(_ context.Context, id string) (record.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.records[id]
	if !ok {
		return record.Record{}, storage.NotFoundError{ID: id}
	}
	return r, nil
}

// Delete removes a record by its id.
func (d *Driver) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.records[id]
	if !ok {
		return storage.NotFoundError{ID: id}
	}

	delete(d.records, id)
	delete(d.byOwner[r.Scope.Owner], id)
	return nil
}

// ListByOwner returns every record owned by the given owner id.
func (d *Driver) ListByOwner(_ context.Context, owner string) ([]record.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := d.byOwner[owner]
	out := make([]record.Record, 0, len(ids))
	for id := range ids {
		out = append(out, d.records[id])
	}
	return out, nil
}

// Count returns the number of records in the in-memory sink.
func (d *Driver) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Close is a no-op for the in-memory sink.
func (d *Driver) Close() error {
	return nil
}

var _ storage.Driver = (*Driver)(nil)
