package domain

import "time"

// Section is one unit of content in spine order. A section is immutable
// once the structural index is built for a given book instance.
type Section struct {
	// Index is the position within spine order.
	Index int

	// Href locates the section's resource within the book.
	Href string

	// Length is the text content length in characters.
	Length int

	// Images lists the embedded image references.
	Images []string

	// NavItem is the outline node mapped to this section, if any.
	NavItem *NavItem
}

// TotalLength returns the summed character length of all sections.
func TotalLength(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += s.Length
	}
	return total
}

// FindSection returns the section whose href matches target
// (fuzzy comparison, fragment stripped), or nil.
func FindSection(sections []Section, target string) *Section {
	if i := FindSectionIndex(sections, target); i >= 0 {
		return &sections[i]
	}
	return nil
}

// FindSectionIndex returns the slice position of the section whose href
// matches target, or -1.
func FindSectionIndex(sections []Section, target string) int {
	for i := range sections {
		if CompareHref(sections[i].Href, target) {
			return i
		}
	}
	return -1
}

// Location is a position report from the render engine.
type Location struct {
	// CFI is the stable, order-preserving position identifier.
	CFI string

	// Href is the current section's href.
	Href string

	// DisplayedPage is the 1-based page within the current section.
	DisplayedPage int

	// DisplayedTotal is the page count of the current section.
	DisplayedTotal int

	// AtStart reports the logical start of the book.
	AtStart bool

	// AtEnd reports the logical end of the book.
	AtEnd bool
}

// PageMarker is one entry of a book's embedded page list.
type PageMarker struct {
	// Page is the print page number.
	Page int

	// CFI is the optional position of the page break.
	CFI string
}

// TimelineItem pairs a position report with the time it arrived.
type TimelineItem struct {
	Location  Location
	Timestamp time.Time
}
