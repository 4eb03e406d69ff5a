package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// Ensure StatsStore implements the interface.
var _ driven.StatsStore = (*StatsStore)(nil)

// StatsStore is an in-memory implementation of driven.StatsStore.
type StatsStore struct {
	mu       sync.RWMutex
	sessions []domain.ReadingSession
}

// NewStatsStore creates a new in-memory stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{}
}

// RecordSession merges a session into the store. Sessions with the same
// date and book accumulate.
func (s *StatsStore) RecordSession(_ context.Context, session domain.ReadingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].Date == session.Date && s.sessions[i].BookID == session.BookID {
			s.sessions[i].Duration += session.Duration
			s.sessions[i].PagesRead += session.PagesRead
			return nil
		}
	}
	s.sessions = append(s.sessions, session)
	return nil
}

// ListSessions returns all recorded sessions, oldest first.
func (s *StatsStore) ListSessions(_ context.Context) ([]domain.ReadingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ReadingSession, len(s.sessions))
	copy(result, s.sessions)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].BookID < result[j].BookID
	})
	return result, nil
}
