package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
)

// pageThreshold is the minimum dwell time for a position change to
// count as a read page rather than flipping past.
const pageThreshold = 8 * time.Second

// progressEpsilon filters out position reports that did not actually
// move, such as resize re-reports.
const progressEpsilon = 0.001

// StatsTracker accumulates reading time and page turns for the current
// run and flushes them into the stats store as daily sessions.
type StatsTracker struct {
	mu    sync.Mutex
	store driven.StatsStore
	now   func() time.Time

	bookID    string
	startedAt time.Time
	lastTurn  time.Time
	lastPct   float64
	pagesRead int
}

var _ driving.StatsService = (*StatsTracker)(nil)

// NewStatsTracker creates a tracker backed by the given store. A nil
// store keeps statistics in memory only.
func NewStatsTracker(store driven.StatsStore) *StatsTracker {
	return &StatsTracker{store: store, now: time.Now}
}

// StartSession begins tracking a book. Starting while another book is
// tracked carries the accumulated time over; only one book is tracked
// at a time.
func (t *StatsTracker) StartSession(bookID string, percentage float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if t.bookID == "" {
		t.startedAt = now
	}
	t.bookID = bookID
	t.lastTurn = now
	t.lastPct = percentage
	t.pagesRead = 0
}

// OnProgress consumes a position-change event. A change counts as a
// read page when the position actually moved and the previous page was
// displayed long enough to have been read.
func (t *StatsTracker) OnProgress(bookID string, percentage float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bookID != t.bookID {
		return
	}
	now := t.now()
	if math.Abs(percentage-t.lastPct) < progressEpsilon {
		return
	}
	if now.Sub(t.lastTurn) >= pageThreshold {
		t.pagesRead++
	}
	t.lastTurn = now
	t.lastPct = percentage
}

// EndSession flushes the tracked activity into the store and resets the
// tracker.
func (t *StatsTracker) EndSession(ctx context.Context) error {
	t.mu.Lock()
	if t.bookID == "" {
		t.mu.Unlock()
		return nil
	}
	session := domain.ReadingSession{
		Date:      t.startedAt.Format("2006-01-02"),
		BookID:    t.bookID,
		Duration:  int(t.now().Sub(t.startedAt).Minutes()),
		PagesRead: t.pagesRead,
	}
	t.bookID = ""
	t.pagesRead = 0
	t.mu.Unlock()

	if t.store == nil {
		return nil
	}
	if err := t.store.RecordSession(ctx, session); err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// Stats aggregates all recorded sessions into totals and the current
// daily streak.
func (t *StatsTracker) Stats(ctx context.Context) (*domain.ReadingStats, error) {
	if t.store == nil {
		return &domain.ReadingStats{}, nil
	}
	sessions, err := t.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	stats := &domain.ReadingStats{Sessions: sessions}
	for _, s := range sessions {
		stats.TotalMinutes += s.Duration
		if s.Date > stats.LastReadDate {
			stats.LastReadDate = s.Date
		}
	}
	stats.CurrentStreak = streak(sessions, t.now())
	return stats, nil
}

// streak counts how many consecutive days ending today or yesterday
// have at least one session.
func streak(sessions []domain.ReadingSession, now time.Time) int {
	days := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		days[s.Date] = true
	}
	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
		if !days[day.Format("2006-01-02")] {
			return 0
		}
	}
	count := 0
	for days[day.Format("2006-01-02")] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
