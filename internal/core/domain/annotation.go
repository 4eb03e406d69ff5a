package domain

import "time"

// AnnotationType distinguishes the annotation variants.
type AnnotationType string

const (
	// AnnotationHighlight marks a passage without attached text.
	AnnotationHighlight AnnotationType = "highlight"

	// AnnotationNote is a highlight with attached note text.
	AnnotationNote AnnotationType = "note"
)

// AnnotationColor is the colour tag attached to an annotation.
type AnnotationColor string

// Annotation colours offered by the presentation layer.
const (
	ColorYellow AnnotationColor = "yellow"
	ColorRed    AnnotationColor = "red"
	ColorGreen  AnnotationColor = "green"
	ColorBlue   AnnotationColor = "blue"
)

// SpineRef records where in the spine an annotation was created.
type SpineRef struct {
	// Index is the section index in spine order.
	Index int

	// Title is the owning nav item's label at creation time.
	Title string
}

// Annotation is a highlight or note anchored to a stable position
// identifier. Annotations are unique per (book id, CFI): a second write
// at the same position updates in place.
type Annotation struct {
	// ID is the unique identifier for the annotation.
	ID string

	// BookID links to the owning BookRecord.
	BookID string

	// CFI is the position identifier the annotation is anchored to.
	CFI string

	// Spine is the spine reference captured at creation.
	Spine SpineRef

	// Type is highlight or note.
	Type AnnotationType

	// Color is the colour tag.
	Color AnnotationColor

	// Text is the highlighted passage.
	Text string

	// Notes is the optional note text.
	Notes string

	// CreatedAt is when the annotation was first created.
	CreatedAt time.Time

	// UpdatedAt is when the annotation was last modified.
	UpdatedAt time.Time
}

// FindAnnotation returns the index of the annotation anchored at cfi,
// or -1 if none exists.
func FindAnnotation(annotations []Annotation, cfi string) int {
	for i := range annotations {
		if annotations[i].CFI == cfi {
			return i
		}
	}
	return -1
}
