package tui

import "errors"

// Configuration errors returned by Ports.Validate.
var (
	// ErrMissingSession indicates no reading session was provided.
	ErrMissingSession = errors.New("session is required")

	// ErrMissingLibraryService indicates no library service was provided.
	ErrMissingLibraryService = errors.New("library service is required")
)
