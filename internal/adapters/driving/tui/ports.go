// Package tui provides the interactive terminal reader for lumen.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// Ports aggregates everything the reader needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the reading session the reader drives.
	Session *services.Session

	// Library manages the book collection.
	Library driving.LibraryService

	// Stats aggregates reading activity. Optional.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
