// Package store provides history.Store backends: an in-memory map for tests
// and single-process use, and Redis for shared deployments.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/krishiq/krishiq/errors"
	"github.com/krishiq/krishiq/history"
)

// MemoryStore keeps records in a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*history.Record
}

var _ history.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*history.Record),
	}
}

// Save persists a record, replacing any record with the same ID.
func (s *MemoryStore) Save(ctx context.Context, record *history.Record) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("history record must have an ID: %w", errors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

// Load retrieves a record by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("history record %s: %w", id, errors.ErrNotFound)
	}
	return record.Clone(), nil
}

// List returns the IDs of all stored records.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes a record by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("history record %s: %w", id, errors.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

// Clear removes all records.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*history.Record)
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
