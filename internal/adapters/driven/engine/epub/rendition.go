package epub

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Ensure rendition implements the interface.
var _ driven.Rendition = (*rendition)(nil)

// rendition lays section text out into fixed-size text pages. A page
// holds roughly width*height runes, cut at word boundaries where
// possible.
type rendition struct {
	mu      sync.Mutex
	surface string
	width   int
	height  int
	events  driven.RenditionEvents
	hrefs   []string
	texts   [][]rune
	pages   [][]pageSlice
	section int
	page    int
	closed  bool
}

// pageSlice is one page within a section: the rune offset it starts at
// and the offset past its end.
type pageSlice struct {
	start int
	end   int
}

func newRendition(surface string, width, height int, spine []driven.SpineItem, events driven.RenditionEvents) (*rendition, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface %dx%d: %w", width, height, domain.ErrInvalidInput)
	}
	if len(spine) == 0 {
		return nil, domain.ErrNoContent
	}

	r := &rendition{
		surface: surface,
		width:   width,
		height:  height,
		events:  events,
	}
	for _, item := range spine {
		content, err := item.Load(context.Background())
		if err != nil {
			return nil, err
		}
		r.hrefs = append(r.hrefs, item.Href())
		r.texts = append(r.texts, []rune(content.Text))
	}
	r.paginate()

	fire(events.Attached)
	fire(events.Started)
	return r, nil
}

// paginate recomputes page boundaries for the current dimensions.
// Caller must hold the lock or have exclusive access.
func (r *rendition) paginate() {
	capacity := r.width * r.height
	if capacity < 1 {
		capacity = 1
	}
	r.pages = make([][]pageSlice, len(r.texts))
	for i, text := range r.texts {
		r.pages[i] = splitPages(text, capacity)
	}
}

// splitPages cuts text into pages of at most capacity runes, preferring
// to break at the last space inside the window. Empty sections still
// get one empty page so they stay navigable.
func splitPages(text []rune, capacity int) []pageSlice {
	if len(text) == 0 {
		return []pageSlice{{start: 0, end: 0}}
	}
	var pages []pageSlice
	for start := 0; start < len(text); {
		end := start + capacity
		if end >= len(text) {
			pages = append(pages, pageSlice{start: start, end: len(text)})
			break
		}
		cut := end
		for i := end; i > start; i-- {
			if text[i-1] == ' ' {
				cut = i
				break
			}
		}
		pages = append(pages, pageSlice{start: start, end: cut})
		start = cut
	}
	return pages
}

// Display navigates to a target position.
func (r *rendition) Display(target string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.ErrTabClosed
	}
	section, page := r.resolve(target)
	r.section = section
	r.page = page
	href := r.hrefs[section]
	loc := r.locationLocked()
	r.mu.Unlock()

	fire(r.events.Displayed)
	if r.events.Rendered != nil {
		r.events.Rendered(href)
	}
	r.relocate(loc)
	return nil
}

// resolve maps a target to a section and page. Unresolvable targets
// degrade to the book start. Caller must hold the lock.
func (r *rendition) resolve(target string) (section, page int) {
	if target == "" {
		return 0, 0
	}
	if idx, offset, ok := parseCFI(target); ok {
		if idx >= len(r.pages) {
			idx = len(r.pages) - 1
		}
		return idx, pageForOffset(r.pages[idx], offset)
	}
	href, _, _ := strings.Cut(target, "#")
	for i, h := range r.hrefs {
		if h == href || strings.HasSuffix(h, href) || strings.HasSuffix(href, h) {
			return i, 0
		}
	}
	logger.Debug("display target %q not resolvable, showing book start", target)
	return 0, 0
}

func pageForOffset(pages []pageSlice, offset int) int {
	for i, p := range pages {
		if offset < p.end {
			return i
		}
	}
	return len(pages) - 1
}

// Content returns the text of the currently displayed page.
func (r *rendition) Content() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pages[r.section][r.page]
	return string(r.texts[r.section][p.start:p.end])
}

// Next pages forwards, crossing into the next section at a section's
// last page. At the book end it re-reports the final position.
func (r *rendition) Next() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.ErrTabClosed
	}
	moved := true
	switch {
	case r.page < len(r.pages[r.section])-1:
		r.page++
	case r.section < len(r.pages)-1:
		r.section++
		r.page = 0
	default:
		moved = false
	}
	href := r.hrefs[r.section]
	loc := r.locationLocked()
	r.mu.Unlock()

	if moved && r.events.Rendered != nil {
		r.events.Rendered(href)
	}
	r.relocate(loc)
	return nil
}

// Prev pages backwards, crossing into the previous section's last page.
// At the book start it re-reports the initial position.
func (r *rendition) Prev() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.ErrTabClosed
	}
	moved := true
	switch {
	case r.page > 0:
		r.page--
	case r.section > 0:
		r.section--
		r.page = len(r.pages[r.section]) - 1
	default:
		moved = false
	}
	href := r.hrefs[r.section]
	loc := r.locationLocked()
	r.mu.Unlock()

	if moved && r.events.Rendered != nil {
		r.events.Rendered(href)
	}
	r.relocate(loc)
	return nil
}

// Resize repaginates for new dimensions, keeping the reading position
// by rune offset.
func (r *rendition) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	offset := r.pages[r.section][r.page].start
	r.width = width
	r.height = height
	r.paginate()
	r.page = pageForOffset(r.pages[r.section], offset)
	loc := r.locationLocked()
	r.mu.Unlock()

	r.relocate(loc)
}

// AtLeftEdge reports whether the viewport sits at the first page of the
// current section.
func (r *rendition) AtLeftEdge() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page == 0
}

// Close detaches the rendition.
func (r *rendition) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	fire(r.events.Removed)
	return nil
}

// locationLocked builds the position report for the current page.
// Caller must hold the lock.
func (r *rendition) locationLocked() domain.Location {
	pages := r.pages[r.section]
	return domain.Location{
		CFI:            makeCFI(r.section, pages[r.page].start),
		Href:           r.hrefs[r.section],
		DisplayedPage:  r.page + 1,
		DisplayedTotal: len(pages),
		AtStart:        r.section == 0 && r.page == 0,
		AtEnd:          r.section == len(r.pages)-1 && r.page == len(pages)-1,
	}
}

func (r *rendition) relocate(loc domain.Location) {
	if r.events.Relocated != nil {
		r.events.Relocated(loc)
	}
}

func fire(fn func()) {
	if fn != nil {
		fn()
	}
}
