// Package sqlite provides a SQLite-backed record sink.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id    TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	body  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_owner ON records(owner);
`

// Driver implements storage.Driver on SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (and migrates) a SQLite-backed record sink.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Put stores or replaces a record by id.
func (d *Driver) Put(ctx context.Context, r record.Record) error {
	if r.ID == "" {
		return errors.New("cannot store record without id")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", r.ID, err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO records (id, owner, body) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, body = excluded.body`,
		r.ID, r.Scope.Owner, string(body),
	)
	if err != nil {
		return fmt.Errorf("storing record %s: %w", r.ID, err)
	}
	return nil
}

// Get retrieves a record by its id.
func (d *Driver) Get(ctx context.Context, id string) (record.Record, error) {
	var body string
	err := d.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE id = ?`, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("getting record %s: %w", id, err)
	}

	var r record.Record
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return record.Record{}, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return r, nil
}

// Delete removes a record by its id.
func (d *Driver) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if n == 0 {
		return storage.NotFoundError{ID: id}
	}
	return nil
}

// ListByOwner returns every record owned by the given owner id.
func (d *Driver) ListByOwner(ctx context.Context, owner string) ([]record.Record, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT body FROM records WHERE owner = ?`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing records for %s: %w", owner, err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}

		var r record.Record
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("decoding record row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ storage.Driver = (*Driver)(nil)
