package services

import (
	"context"
	"sync"
	"time"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// scanFunc runs one full-book search for a keyword.
type scanFunc func(ctx context.Context, keyword string) []domain.Match

// Searcher debounces keyword changes so rapid typing triggers a single
// scan. Each keystroke resets the timer; the scan runs only once the
// keyword has been stable for the configured interval. Setting the
// keyword to its current value is a no-op. Setting it to empty clears
// the results through the same debounce window, without scanning.
type Searcher struct {
	mu       sync.Mutex
	debounce time.Duration
	keyword  string
	results  []domain.Match
	timer    *time.Timer
	cancel   context.CancelFunc
	closed   bool

	scan   scanFunc
	notify func()
}

func newSearcher(cfg domain.SearchConfig, scan scanFunc, notify func()) *Searcher {
	if notify == nil {
		notify = func() {}
	}
	return &Searcher{
		debounce: cfg.Debounce,
		scan:     scan,
		notify:   notify,
	}
}

// Keyword returns the current keyword.
func (s *Searcher) Keyword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyword
}

// Results returns the current result tree.
func (s *Searcher) Results() []domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// SetKeyword updates the keyword and schedules a scan after the
// debounce interval.
func (s *Searcher) SetKeyword(keyword string) {
	s.mu.Lock()
	if s.closed || keyword == s.keyword {
		s.mu.Unlock()
		return
	}
	s.keyword = keyword
	s.cancelPendingLocked()
	s.timer = time.AfterFunc(s.debounce, func() { s.run(keyword) })
	s.mu.Unlock()
	s.notify()
}

// run executes a scan, discarding the result if the keyword changed
// while it ran. An empty keyword clears the results without scanning.
func (s *Searcher) run(keyword string) {
	s.mu.Lock()
	if s.closed || keyword != s.keyword {
		s.mu.Unlock()
		return
	}
	if keyword == "" {
		s.results = nil
		s.mu.Unlock()
		s.notify()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	results := s.scan(ctx, keyword)

	s.mu.Lock()
	stale := s.closed || keyword != s.keyword || ctx.Err() != nil
	if !stale {
		s.results = results
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()
	if !stale {
		s.notify()
	}
}

// ToggleResult flips the expansion of the result group with the given
// ID. Any pending scan is cancelled so it cannot overwrite the toggled
// tree.
func (s *Searcher) ToggleResult(matchID string) {
	s.mu.Lock()
	s.cancelPendingLocked()
	results := make([]domain.Match, len(s.results))
	copy(results, s.results)
	for i := range results {
		if results[i].ID == matchID {
			results[i].Expanded = !results[i].Expanded
		}
	}
	s.results = results
	s.mu.Unlock()
	s.notify()
}

func (s *Searcher) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close cancels any pending or running scan and drops the keyword and
// results. Further SetKeyword calls are ignored.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	s.keyword = ""
	s.results = nil
	s.cancelPendingLocked()
	s.mu.Unlock()
}
