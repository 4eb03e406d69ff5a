package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates a book has no loadable content.
	// Surfaced to the presentation layer when a load fails.
	ErrNoContent = errors.New("no content")

	// ErrTabClosed indicates an operation was issued against a closed tab.
	ErrTabClosed = errors.New("tab closed")

	// ErrUnsupportedFormat indicates the render engine cannot open the file.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
