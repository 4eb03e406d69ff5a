package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// TabState tracks the lifecycle of a book tab's content.
type TabState int

const (
	// StateUnloaded means no rendering surface has been attached yet.
	StateUnloaded TabState = iota

	// StateLoading means the book is being parsed and measured.
	StateLoading

	// StateReady means the book is rendered and position reports flow.
	StateReady
)

// BookTab owns one open book: the parsed publication, its derived state
// (sections, outline, page count, search results) and the persistence
// of reading progress. A session holds at most one BookTab per book per
// group.
//
// All exported methods are safe for concurrent use. The initial load
// runs on its own goroutine; state transitions and position reports are
// serialized through the tab's lock.
type BookTab struct {
	mu       sync.Mutex
	state    TabState
	closed   bool
	rendered bool

	record *domain.BookRecord
	books  driven.BookStore
	files  driven.FileStore
	engine driven.Engine

	estimator *Estimator
	stats     *StatsTracker
	notify    func()

	book      driven.Book
	rendition driven.Rendition
	surface   string
	width     int
	height    int

	toc      []*domain.NavItem
	sections []domain.Section
	spine    []driven.SpineItem
	expanded map[string]bool

	location *domain.Location
	timeline []domain.TimelineItem

	searcher *Searcher

	loadErr error
}

func newBookTab(record *domain.BookRecord, books driven.BookStore, files driven.FileStore, engine driven.Engine, estimator *Estimator, search domain.SearchConfig, stats *StatsTracker, notify func()) *BookTab {
	if notify == nil {
		notify = func() {}
	}
	if record.Configuration == nil {
		record.Configuration = make(map[string]any)
	}
	bt := &BookTab{
		state:     StateUnloaded,
		record:    record,
		books:     books,
		files:     files,
		engine:    engine,
		estimator: estimator,
		stats:     stats,
		notify:    notify,
		expanded:  make(map[string]bool),
	}
	bt.searcher = newSearcher(search, bt.scan, notify)
	return bt
}

// ID returns the backing book's ID.
func (t *BookTab) ID() string { return t.record.ID }

// Title returns the book's display title.
func (t *BookTab) Title() string {
	if t.record.Metadata != nil && t.record.Metadata.Title != "" {
		return t.record.Metadata.Title
	}
	return t.record.Name
}

// Record returns the backing book record.
func (t *BookTab) Record() *domain.BookRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record
}

// State returns the tab's lifecycle state.
func (t *BookTab) State() TabState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LoadErr returns the error that aborted loading, if any.
func (t *BookTab) LoadErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadErr
}

// Location returns the last reported position, or nil before the first
// report.
func (t *BookTab) Location() *domain.Location {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// Timeline returns visited positions, most recent first.
func (t *BookTab) Timeline() []domain.TimelineItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.TimelineItem, len(t.timeline))
	copy(out, t.timeline)
	return out
}

// Sections returns the measured spine sections. Empty until the tab is
// ready.
func (t *BookTab) Sections() []domain.Section {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sections
}

// Render attaches the tab to a rendering surface and starts loading the
// book in the background. Rendering an already attached tab onto the
// same surface is a no-op; a different surface is rejected.
func (t *BookTab) Render(ctx context.Context, surface string, width, height int) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return domain.ErrTabClosed
	}
	if t.state != StateUnloaded {
		same := t.surface == surface
		t.mu.Unlock()
		if same {
			return nil
		}
		return fmt.Errorf("tab already attached to %q: %w", t.surface, domain.ErrAlreadyExists)
	}
	t.state = StateLoading
	t.surface = surface
	t.width = width
	t.height = height
	t.mu.Unlock()
	t.notify()

	go t.load(ctx, surface, width, height)
	return nil
}

func (t *BookTab) load(ctx context.Context, surface string, width, height int) {
	if err := t.doLoad(ctx, surface, width, height); err != nil {
		logger.Warn("loading book %s: %v", t.record.ID, err)
		t.mu.Lock()
		t.state = StateUnloaded
		t.surface = ""
		t.loadErr = err
		t.mu.Unlock()
		t.notify()
	}
}

func (t *BookTab) doLoad(ctx context.Context, surface string, width, height int) error {
	data, err := t.files.GetFile(ctx, t.record.ID)
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}

	book, err := t.engine.Open(ctx, data)
	if err != nil {
		return fmt.Errorf("opening book: %w", err)
	}

	toc, err := book.Navigation(ctx)
	if err != nil {
		book.Close()
		return fmt.Errorf("resolving outline: %w", err)
	}

	spine, err := book.Spine(ctx)
	if err != nil {
		book.Close()
		return fmt.Errorf("resolving spine: %w", err)
	}

	sections := make([]domain.Section, 0, len(spine))
	for _, item := range spine {
		content, err := item.Load(ctx)
		if err != nil {
			book.Close()
			return fmt.Errorf("loading section %s: %w", item.Href(), err)
		}
		sections = append(sections, domain.Section{
			Index:   item.Index(),
			Href:    item.Href(),
			Length:  utf8.RuneCountInString(content.Text),
			Images:  content.Images,
			NavItem: domain.FindNavItem(toc, item.Href()),
		})
	}

	estimate := t.estimator.Estimate(ctx, t.record, book)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		book.Close()
		return nil
	}
	t.book = book
	t.toc = toc
	t.spine = spine
	t.sections = sections
	t.record.Apply(domain.BookUpdate{
		PageCount:          &estimate.PageCount,
		PageCountEstimated: &estimate.Estimated,
	})
	initialCFI := t.record.CFI
	t.mu.Unlock()

	t.persist(domain.BookUpdate{
		PageCount:          &estimate.PageCount,
		PageCountEstimated: &estimate.Estimated,
	})

	rendition, err := book.RenderTo(surface, width, height, driven.RenditionEvents{
		Relocated: t.relocated,
	})
	if err != nil {
		return fmt.Errorf("attaching rendition: %w", err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		rendition.Close()
		return nil
	}
	t.rendition = rendition
	t.mu.Unlock()

	if err := rendition.Display(initialCFI); err != nil {
		logger.Warn("restoring position in %s: %v", t.record.ID, err)
		if err := rendition.Display(""); err != nil {
			return fmt.Errorf("displaying book start: %w", err)
		}
	}

	if t.stats != nil {
		t.stats.StartSession(t.record.ID, t.record.Percentage)
	}
	return nil
}

// relocated consumes a position report from the rendition. The first
// report flips the tab to ready; every report prepends a timeline
// entry, derives the overall progress and persists both.
func (t *BookTab) relocated(loc domain.Location) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.state = StateReady
	t.rendered = true
	t.location = &loc
	t.timeline = append([]domain.TimelineItem{{Location: loc, Timestamp: time.Now()}}, t.timeline...)

	pct := t.progressLocked(loc)
	cfi := loc.CFI
	t.record.Apply(domain.BookUpdate{CFI: &cfi, Percentage: &pct})
	bookID := t.record.ID
	t.mu.Unlock()

	t.persist(domain.BookUpdate{CFI: &cfi, Percentage: &pct})
	if t.stats != nil {
		t.stats.OnProgress(bookID, pct)
	}
	t.notify()
}

// progressLocked derives overall progress from a position report. The
// current section contributes proportionally by displayed page; a
// report from the last page of the last section is forced to exactly 1.
func (t *BookTab) progressLocked(loc domain.Location) float64 {
	total := domain.TotalLength(t.sections)
	if total == 0 {
		return 0
	}
	idx := domain.FindSectionIndex(t.sections, loc.Href)
	if idx < 0 {
		return t.record.Percentage
	}
	if idx == len(t.sections)-1 && loc.DisplayedTotal > 0 && loc.DisplayedPage >= loc.DisplayedTotal {
		return 1
	}
	preceding := 0
	for i := 0; i < idx; i++ {
		preceding += t.sections[i].Length
	}
	cur := t.sections[idx].Length
	frac := 0.0
	if loc.DisplayedTotal > 0 {
		frac = float64(loc.DisplayedPage) / float64(loc.DisplayedTotal)
	}
	return (float64(preceding) + float64(cur)*frac) / float64(total)
}

// persist writes a partial update to the store. Persistence failures
// are logged, not surfaced; the in-memory record stays authoritative
// for the session.
func (t *BookTab) persist(update domain.BookUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.books.Update(ctx, t.record.ID, update); err != nil {
		logger.Warn("persisting progress for %s: %v", t.record.ID, err)
	}
}

// Display navigates to a target position. With returnable set, the
// previous position is kept so the reader can jump back.
func (t *BookTab) Display(target string, returnable bool) error {
	t.mu.Lock()
	r := t.rendition
	var prev string
	if returnable && t.location != nil {
		prev = t.location.CFI
	}
	t.mu.Unlock()
	if r == nil {
		return domain.ErrNoContent
	}
	if err := r.Display(target); err != nil {
		return err
	}
	if prev != "" {
		t.mu.Lock()
		t.record.Configuration["prevLocation"] = prev
		t.mu.Unlock()
		t.notify()
	}
	return nil
}

// PrevLocation returns the jump-back position stored by a returnable
// Display, or empty.
func (t *BookTab) PrevLocation() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.record.Configuration["prevLocation"].(string); ok {
		return v
	}
	return ""
}

// HidePrevLocation discards the jump-back position.
func (t *BookTab) HidePrevLocation() {
	t.mu.Lock()
	delete(t.record.Configuration, "prevLocation")
	t.mu.Unlock()
	t.notify()
}

// Next pages forwards.
func (t *BookTab) Next() error {
	t.mu.Lock()
	r := t.rendition
	t.mu.Unlock()
	if r == nil {
		return domain.ErrNoContent
	}
	return r.Next()
}

// Prev pages backwards. At the very start of the book it reports
// AtStart through the location instead of moving. Leaving the current
// section clears the rendered flag until the next position report, so
// the surface can hold back a stale page.
func (t *BookTab) Prev() error {
	t.mu.Lock()
	r := t.rendition
	loc := t.location
	t.mu.Unlock()
	if r == nil {
		return domain.ErrNoContent
	}
	if loc != nil && !loc.AtStart && r.AtLeftEdge() {
		t.mu.Lock()
		t.rendered = false
		t.mu.Unlock()
	}
	return r.Prev()
}

// Rendered reports whether the surface shows content for the current
// position.
func (t *BookTab) Rendered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendered
}

// Content returns the text of the currently displayed page, or the
// empty string before the rendition is ready.
func (t *BookTab) Content() string {
	t.mu.Lock()
	r := t.rendition
	t.mu.Unlock()
	if r == nil {
		return ""
	}
	return r.Content()
}

// AtLeftEdge reports whether paging backwards would leave the current
// section.
func (t *BookTab) AtLeftEdge() bool {
	t.mu.Lock()
	r := t.rendition
	t.mu.Unlock()
	return r != nil && r.AtLeftEdge()
}

// Resize propagates new surface dimensions to the rendition.
func (t *BookTab) Resize(width, height int) {
	t.mu.Lock()
	t.width = width
	t.height = height
	r := t.rendition
	t.mu.Unlock()
	if r != nil {
		r.Resize(width, height)
	}
}

// PutAnnotation inserts or updates an annotation. Creation mints an
// identity and records where in the spine the reader was. Updates match
// by position and preserve the original identity and creation time.
func (t *BookTab) PutAnnotation(ann domain.Annotation) {
	t.mu.Lock()
	annotations := append([]domain.Annotation(nil), t.record.Annotations...)
	if i := domain.FindAnnotation(annotations, ann.CFI); i >= 0 {
		ann.ID = annotations[i].ID
		ann.CreatedAt = annotations[i].CreatedAt
		ann.UpdatedAt = time.Now()
		annotations[i] = ann
	} else {
		if ann.ID == "" {
			ann.ID = uuid.NewString()
		}
		if ann.BookID == "" {
			ann.BookID = t.record.ID
		}
		if ann.Spine == (domain.SpineRef{}) {
			ann.Spine = t.spineRefLocked()
		}
		if ann.CreatedAt.IsZero() {
			ann.CreatedAt = time.Now()
		}
		ann.UpdatedAt = ann.CreatedAt
		annotations = append(annotations, ann)
	}
	t.record.Annotations = annotations
	t.mu.Unlock()

	t.persist(domain.BookUpdate{Annotations: annotations})
	t.notify()
}

// spineRefLocked derives the spine reference for the current position.
func (t *BookTab) spineRefLocked() domain.SpineRef {
	if t.location == nil {
		return domain.SpineRef{}
	}
	idx := domain.FindSectionIndex(t.sections, t.location.Href)
	if idx < 0 {
		return domain.SpineRef{}
	}
	ref := domain.SpineRef{Index: t.sections[idx].Index}
	if nav := t.sections[idx].NavItem; nav != nil {
		ref.Title = nav.Label
	}
	return ref
}

// RemoveAnnotation deletes the annotation at a position, if present.
func (t *BookTab) RemoveAnnotation(cfi string) {
	t.mu.Lock()
	i := domain.FindAnnotation(t.record.Annotations, cfi)
	if i < 0 {
		t.mu.Unlock()
		return
	}
	annotations := append([]domain.Annotation(nil), t.record.Annotations[:i]...)
	annotations = append(annotations, t.record.Annotations[i+1:]...)
	t.record.Annotations = annotations
	t.mu.Unlock()

	t.persist(domain.BookUpdate{Annotations: annotations})
	t.notify()
}

// Annotations returns the book's annotations.
func (t *BookTab) Annotations() []domain.Annotation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.Annotations
}

// Define adds a word to the book's defined set.
func (t *BookTab) Define(word string) {
	t.mu.Lock()
	defs := t.record.WithDefinitions(word)
	t.record.Definitions = defs
	t.mu.Unlock()

	t.persist(domain.BookUpdate{Definitions: defs})
	t.notify()
}

// Undefine removes a word from the book's defined set.
func (t *BookTab) Undefine(word string) {
	t.mu.Lock()
	defs := t.record.WithoutDefinition(word)
	t.record.Definitions = defs
	t.mu.Unlock()

	t.persist(domain.BookUpdate{Definitions: defs})
	t.notify()
}

// IsDefined reports whether a word is in the defined set, ignoring
// case.
func (t *BookTab) IsDefined(word string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.IsDefined(word)
}

// Toggle flips the expansion of an outline node.
func (t *BookTab) Toggle(navID string) {
	t.mu.Lock()
	t.expanded[navID] = !t.expanded[navID]
	t.mu.Unlock()
	t.notify()
}

// FlattenedTOC returns the outline as a display list: roots always,
// descendants only under expanded nodes.
func (t *BookTab) FlattenedTOC() []domain.FlatNavItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	var flat []domain.FlatNavItem
	for _, root := range t.toc {
		flat = append(flat, domain.FlattenTree(root, 0, t.expanded)...)
	}
	return flat
}

// TOC returns the outline tree.
func (t *BookTab) TOC() []*domain.NavItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.toc
}

// SetKeyword schedules a debounced full-book search.
func (t *BookTab) SetKeyword(keyword string) {
	t.searcher.SetKeyword(keyword)
}

// Keyword returns the current search keyword.
func (t *BookTab) Keyword() string {
	return t.searcher.Keyword()
}

// Results returns the current search result tree.
func (t *BookTab) Results() []domain.Match {
	return t.searcher.Results()
}

// ToggleResult flips the expansion of a search result section. Any
// pending scan is cancelled so the toggle cannot be overwritten.
func (t *BookTab) ToggleResult(matchID string) {
	t.searcher.ToggleResult(matchID)
}

// scan runs one full-book search. It executes on the searcher's timer
// goroutine. Each section with hits becomes one collapsed result node
// keyed by its outline entry; sections absent from the outline are
// skipped.
func (t *BookTab) scan(ctx context.Context, keyword string) []domain.Match {
	t.mu.Lock()
	spine := t.spine
	sections := t.sections
	toc := t.toc
	t.mu.Unlock()

	var results []domain.Match
	for i, item := range spine {
		if ctx.Err() != nil {
			return nil
		}
		hits, err := item.Find(keyword)
		if err != nil {
			logger.Debug("searching section %s: %v", item.Href(), err)
			continue
		}
		if len(hits) == 0 {
			continue
		}
		if i >= len(sections) || sections[i].NavItem == nil {
			continue
		}
		nav := sections[i].NavItem
		for j := range hits {
			if hits[j].CFI != "" {
				hits[j].ID = hits[j].CFI
			}
		}
		results = append(results, domain.Match{
			ID:          nav.Href,
			Excerpt:     nav.Label,
			Description: breadcrumb(toc, nav),
			Subitems:    hits,
		})
	}
	return results
}

// breadcrumb renders the outline path down to (but not including) item.
func breadcrumb(toc []*domain.NavItem, item *domain.NavItem) string {
	path := domain.NavPath(toc, item)
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	labels := make([]string, len(path))
	for i, n := range path {
		labels[i] = n.Label
	}
	return strings.Join(labels, " / ")
}

// Close releases the tab: pending searches are cancelled, the rendition
// is detached and the book is closed. Close is idempotent.
func (t *BookTab) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	rendition := t.rendition
	book := t.book
	t.rendition = nil
	t.book = nil
	t.mu.Unlock()

	t.searcher.Close()
	if rendition != nil {
		if err := rendition.Close(); err != nil {
			logger.Debug("closing rendition for %s: %v", t.record.ID, err)
		}
	}
	if book != nil {
		if err := book.Close(); err != nil {
			logger.Debug("closing book %s: %v", t.record.ID, err)
		}
	}
}
