package driving

import (
	"context"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// StatsService aggregates reading activity.
type StatsService interface {
	// StartSession begins tracking a book.
	StartSession(bookID string, percentage float64)

	// OnProgress consumes a position-change event.
	OnProgress(bookID string, percentage float64)

	// EndSession records the tracked activity as a reading session.
	EndSession(ctx context.Context) error

	// Stats returns the aggregate view over all recorded sessions.
	Stats(ctx context.Context) (*domain.ReadingStats, error)
}
