package memory

import (
	"context"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// FileStore is an in-memory implementation of driven.FileStore.
type FileStore struct {
	mu     sync.RWMutex
	files  map[string][]byte
	covers map[string][]byte
}

// NewFileStore creates a new in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{
		files:  make(map[string][]byte),
		covers: make(map[string][]byte),
	}
}

// SaveFile stores the raw content of a book.
func (s *FileStore) SaveFile(_ context.Context, bookID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[bookID] = append([]byte(nil), data...)
	return nil
}

// GetFile retrieves the raw content of a book.
func (s *FileStore) GetFile(_ context.Context, bookID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[bookID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// DeleteFile removes the raw content and cover of a book.
func (s *FileStore) DeleteFile(_ context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, bookID)
	delete(s.covers, bookID)
	return nil
}

// SaveCover stores a book's cover image.
func (s *FileStore) SaveCover(_ context.Context, bookID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.covers[bookID] = append([]byte(nil), data...)
	return nil
}

// GetCover retrieves a book's cover image.
func (s *FileStore) GetCover(_ context.Context, bookID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.covers[bookID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}
