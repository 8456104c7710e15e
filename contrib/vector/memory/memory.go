// Package memory provides an in-memory vector.Store backed by a map and a
// full cosine scan. It is the default store for small corpora and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/krishiq/krishiq/errors"
	"github.com/krishiq/krishiq/vector"
)

// Store implements vector.Store using in-memory storage.
type Store struct {
	entries map[string]*vector.Entry
	mu      sync.RWMutex
}

// NewStore creates a new in-memory vector store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*vector.Entry),
	}
}

// Add stores entries, replacing any existing entry with the same ID.
func (s *Store) Add(ctx context.Context, entries ...*vector.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if entry == nil {
			return fmt.Errorf("entry cannot be nil")
		}
		if entry.ID == "" {
			return fmt.Errorf("entry ID cannot be empty")
		}
		if len(entry.Vector) == 0 {
			return fmt.Errorf("entry vector cannot be empty")
		}
		s.entries[entry.ID] = entry
	}
	return nil
}

// Search finds the entries most similar to the query vector, best first.
// Ties break on ID so results are deterministic.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int) ([]*vector.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	type result struct {
		entry      *vector.Entry
		similarity float32
	}

	results := make([]result, 0, len(s.entries))
	for _, entry := range s.entries {
		if len(entry.Vector) != len(queryVector) {
			continue
		}
		results = append(results, result{
			entry:      entry,
			similarity: vector.CosineSimilarity(queryVector, entry.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].similarity != results[j].similarity {
			return results[i].similarity > results[j].similarity
		}
		return results[i].entry.ID < results[j].entry.ID
	})

	limit := topK
	if limit > len(results) {
		limit = len(results)
	}

	entries := make([]*vector.Entry, limit)
	for i := 0; i < limit; i++ {
		entries[i] = results[i].entry
	}
	return entries, nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*vector.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[id]
	if !exists {
		return nil, fmt.Errorf("entry %q: %w", id, errors.ErrNotFound)
	}
	return entry, nil
}

// Delete removes an entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return fmt.Errorf("entry %q: %w", id, errors.ErrNotFound)
	}
	delete(s.entries, id)
	return nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*vector.Entry)
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}

var _ vector.Store = (*Store)(nil)
