// Package memory provides in-memory implementations of the storage
// ports. Used in tests and as a fallback when the SQLite store cannot
// be opened.
package memory

import (
	"context"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// Ensure BookStore implements the interface.
var _ driven.BookStore = (*BookStore)(nil)

// BookStore is an in-memory implementation of driven.BookStore.
type BookStore struct {
	mu      sync.RWMutex
	records map[string]domain.BookRecord
}

// NewBookStore creates a new in-memory book store.
func NewBookStore() *BookStore {
	return &BookStore{
		records: make(map[string]domain.BookRecord),
	}
}

// Save stores or fully replaces a book record.
func (s *BookStore) Save(_ context.Context, rec *domain.BookRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// Get retrieves a book record by ID.
func (s *BookStore) Get(_ context.Context, id string) (*domain.BookRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Update applies a partial update to a book record.
func (s *BookStore) Update(_ context.Context, id string, update domain.BookUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Apply(update)
	s.records[id] = rec
	return nil
}

// Delete removes a book record.
func (s *BookStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns all book records.
func (s *BookStore) List(_ context.Context) ([]domain.BookRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.BookRecord, 0, len(s.records))
	for id := range s.records {
		result = append(result, s.records[id])
	}
	return result, nil
}
