package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// mockBookStore is an in-memory BookStore for tests.
type mockBookStore struct {
	mu      sync.Mutex
	records map[string]*domain.BookRecord
	updates int
}

func newMockBookStore(records ...*domain.BookRecord) *mockBookStore {
	s := &mockBookStore{records: make(map[string]*domain.BookRecord)}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *mockBookStore) Save(_ context.Context, rec *domain.BookRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *rec
	s.records[rec.ID] = &clone
	return nil
}

func (s *mockBookStore) Get(_ context.Context, id string) (*domain.BookRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *mockBookStore) Update(_ context.Context, id string, update domain.BookUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Apply(update)
	s.updates++
	return nil
}

func (s *mockBookStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *mockBookStore) List(_ context.Context) ([]domain.BookRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.BookRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (s *mockBookStore) stored(id string) *domain.BookRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id]
}

// mockFileStore is an in-memory FileStore for tests.
type mockFileStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	covers map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte), covers: make(map[string][]byte)}
}

func (s *mockFileStore) SaveFile(_ context.Context, bookID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[bookID] = data
	return nil
}

func (s *mockFileStore) GetFile(_ context.Context, bookID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[bookID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *mockFileStore) DeleteFile(_ context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, bookID)
	delete(s.covers, bookID)
	return nil
}

func (s *mockFileStore) SaveCover(_ context.Context, bookID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.covers[bookID] = data
	return nil
}

func (s *mockFileStore) GetCover(_ context.Context, bookID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.covers[bookID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// mockStatsStore is an in-memory StatsStore for tests.
type mockStatsStore struct {
	mu       sync.Mutex
	sessions []domain.ReadingSession
}

func (s *mockStatsStore) RecordSession(_ context.Context, session domain.ReadingSession) error {
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

func (s *mockStatsStore) ListSessions(_ context.Context) ([]domain.ReadingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReadingSession, len(s.sessions))
	copy(out, s.sessions)
	return out, nil
}

// mockEngine opens every payload as the same configurable book.
type mockEngine struct {
	mu     sync.Mutex
	book   *mockBook
	opens  int
	openFn func(data []byte) (driven.Book, error)
}

func (e *mockEngine) Open(_ context.Context, data []byte) (driven.Book, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opens++
	if e.openFn != nil {
		return e.openFn(data)
	}
	if e.book == nil {
		return nil, domain.ErrUnsupportedFormat
	}
	return e.book, nil
}

// mockBook is a scriptable Book. Section texts double as spine content
// and search corpus.
type mockBook struct {
	mu        sync.Mutex
	metadata  *domain.Metadata
	nav       []*domain.NavItem
	texts     []string
	hrefs     []string
	pageList  []domain.PageMarker
	sizes     []driven.EntrySize
	cover     []byte
	rendition *mockRendition
	closed    bool
}

// mockRestorableBook additionally reloads a cached position mapping.
type mockRestorableBook struct {
	*mockBook
	restored   string
	restoreErr error
}

func (b *mockRestorableBook) RestoreLocations(data string) error {
	if b.restoreErr != nil {
		return b.restoreErr
	}
	b.restored = data
	return nil
}

func (b *mockBook) Metadata() *domain.Metadata { return b.metadata }

func (b *mockBook) Navigation(context.Context) ([]*domain.NavItem, error) { return b.nav, nil }

func (b *mockBook) Spine(context.Context) ([]driven.SpineItem, error) {
	items := make([]driven.SpineItem, len(b.texts))
	for i := range b.texts {
		href := fmt.Sprintf("ch%d.xhtml", i+1)
		if i < len(b.hrefs) {
			href = b.hrefs[i]
		}
		items[i] = &mockSpineItem{index: i, href: href, text: b.texts[i]}
	}
	return items, nil
}

func (b *mockBook) PageList(context.Context) ([]domain.PageMarker, error) {
	return b.pageList, nil
}

func (b *mockBook) ArchiveSizes() []driven.EntrySize { return b.sizes }

func (b *mockBook) Cover(context.Context) ([]byte, error) {
	if b.cover == nil {
		return nil, domain.ErrNotFound
	}
	return b.cover, nil
}

func (b *mockBook) RenderTo(surface string, width, height int, events driven.RenditionEvents) (driven.Rendition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rendition = &mockRendition{surface: surface, width: width, height: height, events: events}
	return b.rendition, nil
}

func (b *mockBook) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *mockBook) currentRendition() *mockRendition {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rendition
}

// mockSpineItem serves a fixed text.
type mockSpineItem struct {
	index int
	href  string
	text  string
}

func (i *mockSpineItem) Index() int   { return i.index }
func (i *mockSpineItem) Href() string { return i.href }

func (i *mockSpineItem) Load(context.Context) (*driven.SectionContent, error) {
	return &driven.SectionContent{Text: i.text}, nil
}

func (i *mockSpineItem) Find(keyword string) ([]domain.Match, error) {
	var hits []domain.Match
	lower := strings.ToLower(i.text)
	needle := strings.ToLower(keyword)
	for at, n := 0, 0; ; n++ {
		j := strings.Index(lower[at:], needle)
		if j < 0 {
			break
		}
		at += j + len(needle)
		hits = append(hits, domain.Match{
			ID:      fmt.Sprintf("%s#%d", i.href, n),
			Excerpt: keyword,
			CFI:     fmt.Sprintf("epubcfi(/6/%04d!/%08d)", (i.index+1)*2, at),
		})
	}
	return hits, nil
}

// mockRendition records navigation calls and lets tests fire position
// reports.
type mockRendition struct {
	mu       sync.Mutex
	surface  string
	width    int
	height   int
	events   driven.RenditionEvents
	displays []string
	nexts    int
	prevs    int
	atEdge   bool
	closed   bool
}

func (r *mockRendition) Display(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displays = append(r.displays, target)
	return nil
}

func (r *mockRendition) Content() string { return "" }

func (r *mockRendition) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nexts++
	return nil
}

func (r *mockRendition) Prev() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prevs++
	return nil
}

func (r *mockRendition) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
}

func (r *mockRendition) AtLeftEdge() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.atEdge
}

func (r *mockRendition) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// relocate fires the Relocated callback as the rendition would.
func (r *mockRendition) relocate(loc domain.Location) {
	r.mu.Lock()
	fn := r.events.Relocated
	r.mu.Unlock()
	if fn != nil {
		fn(loc)
	}
}
