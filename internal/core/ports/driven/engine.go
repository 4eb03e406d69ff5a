package driven

import (
	"context"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// Engine opens raw book content into a navigable Book.
type Engine interface {
	// Open parses raw content. The returned Book owns any resources
	// backing it and must be closed.
	Open(ctx context.Context, data []byte) (Book, error)
}

// Book is an open publication: outline, spine, page list and archive
// access, plus surface binding for rendering.
type Book interface {
	// Metadata returns the publication's descriptive metadata,
	// or nil when the package document carries none.
	Metadata() *domain.Metadata

	// Navigation resolves the outline tree.
	Navigation(ctx context.Context) ([]*domain.NavItem, error)

	// Spine resolves the ordered list of loadable spine items.
	Spine(ctx context.Context) ([]SpineItem, error)

	// PageList resolves the embedded page markers, if the publication
	// carries an authoritative page list. An empty result is not an
	// error.
	PageList(ctx context.Context) ([]domain.PageMarker, error)

	// ArchiveSizes reports the stored sizes of each spine entry in the
	// source archive, for the page-count heuristic.
	ArchiveSizes() []EntrySize

	// Cover returns the cover image bytes, or ErrNotFound.
	Cover(ctx context.Context) ([]byte, error)

	// RenderTo binds the book to a rendering surface. Events fire on
	// the rendition's own scheduling; Relocated is the only event the
	// core requires semantically.
	RenderTo(surface string, width, height int, events RenditionEvents) (Rendition, error)

	// Close releases the resources backing the book.
	Close() error
}

// SpineItem is one loadable unit of the spine.
type SpineItem interface {
	// Index is the position within spine order.
	Index() int

	// Href locates the item's resource within the book.
	Href() string

	// Load retrieves the item's content.
	Load(ctx context.Context) (*SectionContent, error)

	// Find scans the item's content for a keyword and returns one
	// Match leaf per hit, each carrying its own position identifier.
	Find(keyword string) ([]domain.Match, error)
}

// SectionContent is the loaded content of a spine item.
type SectionContent struct {
	// Text is the plain text content.
	Text string

	// Images lists embedded image references.
	Images []string
}

// EntrySize reports the stored sizes of one spine entry in the source
// archive. Uncompressed is zero when the archive does not record it.
type EntrySize struct {
	Href         string
	Uncompressed int64
	Compressed   int64
}

// RenditionEvents are the callbacks a rendition emits. Any callback may
// be nil. Relocated carries the position reports that drive progress;
// the lifecycle events are informational.
type RenditionEvents struct {
	Relocated func(domain.Location)
	Rendered  func(sectionHref string)
	Attached  func()
	Started   func()
	Displayed func()
	Removed   func()
}

// Rendition is a book bound to a rendering surface.
type Rendition interface {
	// Display navigates to a target: a position identifier, an href
	// with optional fragment, or empty for the book start. Unresolvable
	// targets degrade to the closest resolvable position.
	Display(target string) error

	// Content returns the text of the currently displayed page.
	Content() string

	// Prev pages backwards.
	Prev() error

	// Next pages forwards.
	Next() error

	// Resize rebinds the rendition to new surface dimensions.
	Resize(width, height int)

	// AtLeftEdge reports whether the visual viewport sits at the very
	// start of the current section.
	AtLeftEdge() bool

	// Close detaches the rendition from its surface.
	Close() error
}

// LocationRestorer is implemented by books that can reload a previously
// computed position-to-page mapping.
type LocationRestorer interface {
	RestoreLocations(data string) error
}
