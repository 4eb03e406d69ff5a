package driving

import (
	"context"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// LibraryService manages the book collection.
type LibraryService interface {
	// Import parses raw content and stores the record, the raw bytes
	// and the cover. Importing identical content is idempotent and
	// returns the existing record.
	Import(ctx context.Context, name string, data []byte) (*domain.BookRecord, error)

	// List returns all books in the library.
	List(ctx context.Context) ([]domain.BookRecord, error)

	// Get retrieves one book record.
	Get(ctx context.Context, id string) (*domain.BookRecord, error)

	// Delete removes a book record together with its content and cover.
	Delete(ctx context.Context, id string) error
}
