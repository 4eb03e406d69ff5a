package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Library manages the book collection: import, listing and removal.
type Library struct {
	books  driven.BookStore
	files  driven.FileStore
	engine driven.Engine
}

var _ driving.LibraryService = (*Library)(nil)

// NewLibrary creates the library service.
func NewLibrary(books driven.BookStore, files driven.FileStore, engine driven.Engine) *Library {
	return &Library{books: books, files: files, engine: engine}
}

// Import parses raw content, stores the raw bytes, the cover and a new
// book record. The book ID is derived from the content, so importing
// the same file twice returns the existing record unchanged.
func (l *Library) Import(ctx context.Context, name string, data []byte) (*domain.BookRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty content: %w", domain.ErrNoContent)
	}
	id := contentID(data)

	if existing, err := l.books.Get(ctx, id); err == nil {
		logger.Debug("book %s already imported as %s", name, id)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing book: %w", err)
	}

	book, err := l.engine.Open(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	defer book.Close()

	if err := l.files.SaveFile(ctx, id, data); err != nil {
		return nil, fmt.Errorf("storing content: %w", err)
	}

	// Covers are decoration; a book without one still imports.
	if cover, err := book.Cover(ctx); err == nil && len(cover) > 0 {
		if err := l.files.SaveCover(ctx, id, cover); err != nil {
			logger.Warn("storing cover for %s: %v", id, err)
		}
	}

	now := time.Now()
	record := &domain.BookRecord{
		ID:            id,
		Name:          name,
		Metadata:      book.Metadata(),
		Size:          int64(len(data)),
		Configuration: make(map[string]any),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.books.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("storing record: %w", err)
	}
	logger.Info("imported %s as %s", name, id)
	return record, nil
}

// List returns all books in the library.
func (l *Library) List(ctx context.Context) ([]domain.BookRecord, error) {
	return l.books.List(ctx)
}

// Get retrieves one book record.
func (l *Library) Get(ctx context.Context, id string) (*domain.BookRecord, error) {
	return l.books.Get(ctx, id)
}

// Delete removes a book record together with its content and cover.
func (l *Library) Delete(ctx context.Context, id string) error {
	if err := l.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if err := l.files.DeleteFile(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("deleting content %s: %w", id, err)
	}
	return nil
}

// contentID derives a stable book ID from the content bytes.
func contentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
