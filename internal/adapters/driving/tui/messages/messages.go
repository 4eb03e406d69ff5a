// Package messages defines Bubbletea message types for the reader TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// SessionUpdated is sent whenever the reading session changes state:
// tabs added or removed, pages turned, search results in.
type SessionUpdated struct{}

// BooksLoaded carries the library listing back to the model.
type BooksLoaded struct {
	Books []domain.BookRecord
	Err   error
}

// OpenBookRequested asks the app to open a book in a new tab.
type OpenBookRequested struct {
	BookID string
}

// BookOpened reports the outcome of an open request.
type BookOpened struct {
	BookID string
	Err    error
}

// DeleteBookRequested asks the app to remove a book from the library.
type DeleteBookRequested struct {
	BookID string
}

// NavigateRequested asks the app to move the focused tab to a target,
// either a chapter href or a position identifier.
type NavigateRequested struct {
	Target string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred carries an error to be surfaced in the status bar.
type ErrorOccurred struct {
	Err error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLibrary is the book collection view.
	ViewLibrary ViewType = iota
	// ViewReader is the reading view.
	ViewReader
	// ViewTOC is the table of contents view.
	ViewTOC
	// ViewSearch is the in-book search view.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLibrary:
		return "library"
	case ViewReader:
		return "reader"
	case ViewTOC:
		return "toc"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
