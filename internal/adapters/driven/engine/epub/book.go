package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// Ensure Book implements the interface.
var _ driven.Book = (*Book)(nil)

// Book is an open EPUB publication.
type Book struct {
	path     string
	rc       *epub.ReadCloser
	rootfile *epub.Rootfile
	zr       *zip.ReadCloser

	mu    sync.Mutex
	spine []driven.SpineItem
}

// Metadata maps the package document metadata.
func (b *Book) Metadata() *domain.Metadata {
	m := b.rootfile.Metadata
	return &domain.Metadata{
		Title:       m.Title,
		Creator:     m.Creator,
		Description: m.Description,
		Publisher:   m.Publisher,
		Language:    m.Language,
		Subject:     m.Subject,
		Identifier:  m.Identifier,
	}
}

// Navigation parses the NCX into the outline tree. Books without an
// NCX get a flat outline synthesized from the spine.
func (b *Book) Navigation(_ context.Context) ([]*domain.NavItem, error) {
	data, err := b.readNCX()
	if err != nil {
		return b.syntheticNav(), nil
	}
	toc, err := parseNCXNav(data)
	if err != nil {
		return nil, fmt.Errorf("parsing outline: %w", err)
	}
	if len(toc) == 0 {
		return b.syntheticNav(), nil
	}
	return toc, nil
}

// syntheticNav builds a one-level outline from the spine order.
func (b *Book) syntheticNav() []*domain.NavItem {
	var nav []*domain.NavItem
	for i, ref := range b.rootfile.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		nav = append(nav, &domain.NavItem{
			ID:    fmt.Sprintf("spine-%d", i),
			Href:  ref.Item.HREF,
			Label: fmt.Sprintf("Section %d", i+1),
		})
	}
	return nav
}

// Spine returns the loadable spine items.
func (b *Book) Spine(_ context.Context) ([]driven.SpineItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.spine != nil {
		return b.spine, nil
	}
	var items []driven.SpineItem
	for _, ref := range b.rootfile.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		items = append(items, &spineItem{index: len(items), item: ref.Item})
	}
	b.spine = items
	return items, nil
}

// PageList parses the NCX page list, when the publication carries one.
func (b *Book) PageList(_ context.Context) ([]domain.PageMarker, error) {
	data, err := b.readNCX()
	if err != nil {
		return nil, nil
	}
	return parseNCXPageList(data), nil
}

// ArchiveSizes reports the stored sizes of each spine entry.
func (b *Book) ArchiveSizes() []driven.EntrySize {
	byName := make(map[string]*zip.File, len(b.zr.File))
	for _, f := range b.zr.File {
		byName[f.Name] = f
	}

	var sizes []driven.EntrySize
	for _, ref := range b.rootfile.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		f := findArchiveFile(byName, ref.Item.HREF)
		if f == nil {
			continue
		}
		sizes = append(sizes, driven.EntrySize{
			Href:         ref.Item.HREF,
			Uncompressed: int64(f.UncompressedSize64),
			Compressed:   int64(f.CompressedSize64),
		})
	}
	return sizes
}

// findArchiveFile resolves a manifest href against archive entry names,
// which may carry a content-directory prefix.
func findArchiveFile(byName map[string]*zip.File, href string) *zip.File {
	if f, ok := byName[href]; ok {
		return f
	}
	for name, f := range byName {
		if strings.HasSuffix(name, "/"+href) || path.Base(name) == path.Base(href) {
			return f
		}
	}
	return nil
}

// Cover returns the cover image bytes. The manifest item with a cover
// id wins; otherwise the first image in the manifest.
func (b *Book) Cover(_ context.Context) ([]byte, error) {
	var fallback *epub.Item
	for i := range b.rootfile.Manifest.Items {
		item := &b.rootfile.Manifest.Items[i]
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") {
			return readItem(item)
		}
		if fallback == nil {
			fallback = item
		}
	}
	if fallback != nil {
		return readItem(fallback)
	}
	return nil, domain.ErrNotFound
}

// RenderTo binds the book to a text surface.
func (b *Book) RenderTo(surface string, width, height int, events driven.RenditionEvents) (driven.Rendition, error) {
	spine, err := b.Spine(context.Background())
	if err != nil {
		return nil, err
	}
	return newRendition(surface, width, height, spine, events)
}

// Close releases the archive readers and the backing temp file.
func (b *Book) Close() error {
	b.rc.Close()
	var firstErr error
	if err := b.zr.Close(); err != nil {
		firstErr = err
	}
	if err := os.Remove(b.path); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// readNCX locates and reads the NCX file from the archive.
func (b *Book) readNCX() ([]byte, error) {
	var ncxPath string
	for _, item := range b.rootfile.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range b.zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, domain.ErrNotFound
	}

	for _, f := range b.zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, domain.ErrNotFound
}

// readItem reads a manifest item's full content.
func readItem(item *epub.Item) ([]byte, error) {
	r, err := item.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", item.HREF, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
