package domain

import (
	"strings"
	"time"
)

// Metadata holds the optional descriptive fields of a book,
// as found in the publication's package document.
type Metadata struct {
	Title       string
	Creator     string
	Description string
	Publisher   string
	Date        string
	Language    string
	Subject     string
	Identifier  string
}

// BookRecord is the persisted state of one book in the library.
// The persistence store owns the canonical copy; an open tab holds a
// working copy and commits changes back via read-modify-write.
type BookRecord struct {
	// ID is the unique identifier for the book.
	ID string

	// Name is the display name, usually the imported file name.
	Name string

	// Metadata is the optional descriptive metadata.
	Metadata *Metadata

	// Size is the raw content size in bytes.
	Size int64

	// CFI is the last known position identifier.
	CFI string

	// Percentage is the completion percentage, clamped to [0, 1].
	Percentage float64

	// PageCount is the page-count estimate for the book.
	PageCount int

	// PageCountEstimated reports whether PageCount is a heuristic
	// estimate rather than an authoritative count.
	PageCountEstimated bool

	// Annotations is the ordered set of highlights and notes,
	// unique per position identifier.
	Annotations []Annotation

	// Definitions is the ordered set of defined words.
	// Uniqueness is case-insensitive.
	Definitions []string

	// Configuration contains free-form per-book settings
	// (typography, cached location mappings, ...).
	Configuration map[string]any

	// CreatedAt is when the book was imported.
	CreatedAt time.Time

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time
}

// BookUpdate is a partial update to a BookRecord. Nil fields are left
// unchanged; a non-nil empty Annotations or Definitions slice replaces
// the set with an empty one.
type BookUpdate struct {
	CFI                *string
	Percentage         *float64
	PageCount          *int
	PageCountEstimated *bool
	Annotations        []Annotation
	Definitions        []string
	Configuration      map[string]any
}

// Apply merges a partial update into the record.
func (b *BookRecord) Apply(u BookUpdate) {
	if u.CFI != nil {
		b.CFI = *u.CFI
	}
	if u.Percentage != nil {
		b.Percentage = clampPercentage(*u.Percentage)
	}
	if u.PageCount != nil {
		b.PageCount = *u.PageCount
	}
	if u.PageCountEstimated != nil {
		b.PageCountEstimated = *u.PageCountEstimated
	}
	if u.Annotations != nil {
		b.Annotations = u.Annotations
	}
	if u.Definitions != nil {
		b.Definitions = u.Definitions
	}
	if u.Configuration != nil {
		b.Configuration = u.Configuration
	}
}

// CompareDefinition reports whether two definition entries refer to the
// same word. Definitions form a case-insensitive set.
func CompareDefinition(a, b string) bool {
	return strings.EqualFold(a, b)
}

// IsDefined reports whether word is in the definition set,
// compared case-insensitively.
func (b *BookRecord) IsDefined(word string) bool {
	for _, d := range b.Definitions {
		if CompareDefinition(d, word) {
			return true
		}
	}
	return false
}

// WithDefinitions returns the definition set with words appended.
// Deduplication at insert time is the caller's responsibility.
func (b *BookRecord) WithDefinitions(words ...string) []string {
	out := make([]string, 0, len(b.Definitions)+len(words))
	out = append(out, b.Definitions...)
	out = append(out, words...)
	return out
}

// WithoutDefinition returns the definition set with every entry
// case-insensitively equal to word removed.
func (b *BookRecord) WithoutDefinition(word string) []string {
	out := make([]string, 0, len(b.Definitions))
	for _, d := range b.Definitions {
		if !CompareDefinition(d, word) {
			out = append(out, d)
		}
	}
	return out
}

func clampPercentage(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
