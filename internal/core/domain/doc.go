// Package domain defines the core business entities for Lumen Read.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - BookRecord: The persisted state of one book in the library
//   - Section: One unit of content in spine order
//   - NavItem: One node of the outline (table of contents) tree
//   - Annotation: A highlight or note anchored to a position
//   - Match: One node of a search result tree
//   - ReadingSession: One day of reading activity for a book
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
