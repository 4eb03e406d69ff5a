package driven

import (
	"context"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// BookStore persists book records.
// Backed by SQLite for the CLI, by an in-memory map in tests.
type BookStore interface {
	// Save stores or fully replaces a book record.
	Save(ctx context.Context, rec *domain.BookRecord) error

	// Get retrieves a book record by ID.
	Get(ctx context.Context, id string) (*domain.BookRecord, error)

	// Update applies a partial update to a book record.
	// The write is a plain read-modify-write with no transactional
	// isolation; last write wins.
	Update(ctx context.Context, id string, update domain.BookUpdate) error

	// Delete removes a book record.
	Delete(ctx context.Context, id string) error

	// List returns all book records.
	List(ctx context.Context) ([]domain.BookRecord, error)
}

// FileStore persists raw book content and cover images, keyed by
// book ID.
type FileStore interface {
	// SaveFile stores the raw content of a book.
	SaveFile(ctx context.Context, bookID string, data []byte) error

	// GetFile retrieves the raw content of a book.
	GetFile(ctx context.Context, bookID string) ([]byte, error)

	// DeleteFile removes the raw content and cover of a book.
	DeleteFile(ctx context.Context, bookID string) error

	// SaveCover stores a book's cover image.
	SaveCover(ctx context.Context, bookID string, data []byte) error

	// GetCover retrieves a book's cover image.
	GetCover(ctx context.Context, bookID string) ([]byte, error)
}

// StatsStore persists reading sessions for statistics.
type StatsStore interface {
	// RecordSession merges a session into the store. Sessions with the
	// same (date, book id) accumulate duration and pages.
	RecordSession(ctx context.Context, session domain.ReadingSession) error

	// ListSessions returns all recorded sessions, oldest first.
	ListSessions(ctx context.Context) ([]domain.ReadingSession, error)
}
