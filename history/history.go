// Package history records answered questions so operators can audit what
// the service said and on which sources. Stores live under history/store.
package history

import (
	"context"
	"time"
)

// Record is one answered question with its routing and attribution.
type Record struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Intent    string    `json:"intent"`
	Answer    string    `json:"answer"`
	Citations []string  `json:"citations,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Citations != nil {
		out.Citations = append([]string(nil), r.Citations...)
	}
	return &out
}

// Store persists answered questions.
type Store interface {
	// Save persists a record, replacing any record with the same ID.
	Save(ctx context.Context, record *Record) error

	// Load retrieves a record by ID.
	Load(ctx context.Context, id string) (*Record, error)

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]string, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error

	// Clear removes all records.
	Clear(ctx context.Context) error
}
