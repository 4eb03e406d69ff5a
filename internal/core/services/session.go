package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Session is the top-level state container for one reading run: an
// ordered list of groups, one of which holds focus. All mutating
// operations notify subscribers after the mutation commits.
//
// Session is safe for concurrent use. Subscriber callbacks run outside
// the session lock, so a subscriber may call back into the session.
type Session struct {
	mu      sync.Mutex
	groups  []*Group
	focused int

	books     driven.BookStore
	files     driven.FileStore
	engine    driven.Engine
	estimator *Estimator
	search    domain.SearchConfig
	stats     *StatsTracker

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSub     int
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session)

// WithEstimator overrides the default page-count estimator.
func WithEstimator(e *Estimator) SessionOption {
	return func(s *Session) { s.estimator = e }
}

// WithSearchConfig overrides the default search behaviour.
func WithSearchConfig(cfg domain.SearchConfig) SessionOption {
	return func(s *Session) { s.search = cfg }
}

// WithStatsTracker attaches a reading-statistics tracker. Book tabs
// report page turns to it as progress events arrive.
func WithStatsTracker(t *StatsTracker) SessionOption {
	return func(s *Session) { s.stats = t }
}

// NewSession creates a session with one empty focused group.
func NewSession(books driven.BookStore, files driven.FileStore, engine driven.Engine, opts ...SessionOption) *Session {
	s := &Session{
		groups:      []*Group{newGroup()},
		focused:     0,
		books:       books,
		files:       files,
		engine:      engine,
		estimator:   NewEstimator(domain.DefaultPaginationConfig()),
		search:      domain.DefaultSearchConfig(),
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a callback invoked after every committed state
// change. The returned function unregisters it.
func (s *Session) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Groups returns a snapshot of the group list.
func (s *Session) Groups() []*Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// FocusedIndex returns the index of the focused group.
func (s *Session) FocusedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// FocusedGroup returns the focused group, or nil when the session has
// no groups.
func (s *Session) FocusedGroup() *Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusedGroupLocked()
}

func (s *Session) focusedGroupLocked() *Group {
	if s.focused < 0 || s.focused >= len(s.groups) {
		return nil
	}
	return s.groups[s.focused]
}

// FocusedTab returns the selected tab of the focused group, or nil.
func (s *Session) FocusedTab() *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.focusedGroupLocked()
	if g == nil {
		return nil
	}
	return g.Selected()
}

// FocusedBookTab returns the book behind the focused tab, or nil when
// the focused tab is not a book tab.
func (s *Session) FocusedBookTab() *BookTab {
	t := s.FocusedTab()
	if t == nil || t.Kind != TabKindBook {
		return nil
	}
	return t.Book
}

// AddTab opens a tab in the group at groupIndex, or in the focused
// group when groupIndex is negative. When no such group exists a fresh
// one is created after the focused slot. The target group gains focus.
// Opening a book already open in that group focuses the existing tab.
func (s *Session) AddTab(ctx context.Context, spec TabSpec, groupIndex int) (*Tab, error) {
	tab, err := s.buildTab(ctx, spec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if groupIndex < 0 {
		groupIndex = s.focused
	}
	if groupIndex < 0 || groupIndex >= len(s.groups) {
		at := min(s.focused+1, len(s.groups))
		s.groups = append(s.groups[:at:at], append([]*Group{newGroup()}, s.groups[at:]...)...)
		groupIndex = at
	}
	g := s.groups[groupIndex]
	existing := g.indexOf(tab.ID) >= 0
	placed := g.addTab(tab)
	s.focused = groupIndex
	s.mu.Unlock()

	if existing && tab.Book != nil {
		tab.Book.Close()
	}
	s.notify()
	return placed, nil
}

func (s *Session) buildTab(ctx context.Context, spec TabSpec) (Tab, error) {
	switch spec.Kind {
	case TabKindBook:
		bt, err := s.openBookTab(ctx, spec.BookID)
		if err != nil {
			return Tab{}, err
		}
		title := spec.Title
		if title == "" {
			title = bt.Title()
		}
		return Tab{Kind: TabKindBook, ID: spec.BookID, Title: title, Book: bt}, nil
	case TabKindPage:
		if spec.PageID == "" {
			return Tab{}, fmt.Errorf("page tab without page id: %w", domain.ErrInvalidInput)
		}
		return Tab{Kind: TabKindPage, ID: spec.PageID, Title: spec.Title}, nil
	default:
		return Tab{}, fmt.Errorf("tab kind %d: %w", spec.Kind, domain.ErrInvalidInput)
	}
}

func (s *Session) openBookTab(ctx context.Context, bookID string) (*BookTab, error) {
	record, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("loading book record %s: %w", bookID, err)
	}
	return newBookTab(record, s.books, s.files, s.engine, s.estimator, s.search, s.stats, s.notify), nil
}

// RemoveTab closes the tab with the given ID in the group at
// groupIndex. Removing the last tab of a group removes the group
// itself. The closed tab is returned so callers can reopen it.
func (s *Session) RemoveTab(groupIndex int, tabID string) (*Tab, error) {
	s.mu.Lock()
	if groupIndex < 0 {
		groupIndex = s.focused
	}
	if groupIndex < 0 || groupIndex >= len(s.groups) {
		s.mu.Unlock()
		return nil, fmt.Errorf("group %d: %w", groupIndex, domain.ErrNotFound)
	}
	g := s.groups[groupIndex]

	var removed *Tab
	if len(g.Tabs) == 1 && g.indexOf(tabID) == 0 {
		removed = &g.Tabs[0]
		s.removeGroupLocked(groupIndex)
	} else {
		removed = g.removeTab(tabID)
	}
	s.mu.Unlock()

	if removed == nil {
		return nil, fmt.Errorf("tab %s: %w", tabID, domain.ErrNotFound)
	}
	if removed.Book != nil {
		removed.Book.Close()
	}
	s.notify()
	return removed, nil
}

// ReplaceTab swaps the tab with the given ID in the focused group for a
// freshly built one, keeping its slot.
func (s *Session) ReplaceTab(ctx context.Context, tabID string, spec TabSpec) (*Tab, error) {
	tab, err := s.buildTab(ctx, spec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	g := s.focusedGroupLocked()
	var replaced *Tab
	var old Tab
	if g != nil {
		if i := g.indexOf(tabID); i >= 0 {
			old = g.Tabs[i]
			replaced = g.replaceTab(tabID, tab)
		}
	}
	s.mu.Unlock()

	if replaced == nil {
		if tab.Book != nil {
			tab.Book.Close()
		}
		return nil, fmt.Errorf("tab %s: %w", tabID, domain.ErrNotFound)
	}
	if old.Book != nil {
		old.Book.Close()
	}
	s.notify()
	return replaced, nil
}

// SelectTab moves the selection of the focused group.
func (s *Session) SelectTab(tabID string) error {
	s.mu.Lock()
	g := s.focusedGroupLocked()
	ok := g != nil && g.selectTab(tabID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("tab %s: %w", tabID, domain.ErrNotFound)
	}
	s.notify()
	return nil
}

// AddGroup creates an empty group directly after the focused one and
// focuses it.
func (s *Session) AddGroup() *Group {
	s.mu.Lock()
	g := newGroup()
	at := s.focused + 1
	s.groups = append(s.groups[:at:at], append([]*Group{g}, s.groups[at:]...)...)
	s.focused = at
	s.mu.Unlock()
	s.notify()
	return g
}

// RemoveGroup removes the group at the given index, closing its tabs.
func (s *Session) RemoveGroup(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", index, domain.ErrNotFound)
	}
	closing := s.groups[index].Tabs
	s.removeGroupLocked(index)
	s.mu.Unlock()

	for i := range closing {
		if closing[i].Book != nil {
			closing[i].Book.Close()
		}
	}
	s.notify()
	return nil
}

// removeGroupLocked drops the group at index. Focus moves to the group
// now occupying the removed slot, or the last group, or -1 when no
// groups remain.
func (s *Session) removeGroupLocked(index int) {
	s.groups = append(s.groups[:index:index], s.groups[index+1:]...)
	s.focused = min(index, len(s.groups)-1)
}

// SelectGroup moves focus to the group at the given index.
func (s *Session) SelectGroup(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.groups) {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", index, domain.ErrNotFound)
	}
	s.focused = index
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear closes every tab and empties the session: no groups, no focus.
func (s *Session) Clear() {
	s.mu.Lock()
	var closing []Tab
	for _, g := range s.groups {
		closing = append(closing, g.Tabs...)
	}
	s.groups = nil
	s.focused = -1
	s.mu.Unlock()

	for i := range closing {
		if closing[i].Book != nil {
			closing[i].Book.Close()
		}
	}
	logger.Debug("session cleared, %d tabs closed", len(closing))
	s.notify()
}

// Resize propagates new surface dimensions to every open book tab.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	var books []*BookTab
	for _, g := range s.groups {
		for i := range g.Tabs {
			if g.Tabs[i].Book != nil {
				books = append(books, g.Tabs[i].Book)
			}
		}
	}
	s.mu.Unlock()

	for _, bt := range books {
		bt.Resize(width, height)
	}
}
