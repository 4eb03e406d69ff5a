// Package library provides the book collection view component for the TUI.
package library

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
)

// View is the book collection view.
type View struct {
	styles  *styles.Styles
	library driving.LibraryService

	books    []domain.BookRecord
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new library view.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	return &View{
		styles:  s,
		library: library,
	}
}

// Init loads the book collection.
func (v *View) Init() tea.Cmd {
	return v.loadBooks()
}

// loadBooks returns a command that lists the library.
func (v *View) loadBooks() tea.Cmd {
	v.loading = true
	return func() tea.Msg {
		books, err := v.library.List(context.Background())
		return messages.BooksLoaded{Books: books, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BooksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.books = msg.Books
		if v.selected >= len(v.books) {
			v.selected = len(v.books) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		return v, nil

	case messages.BookOpened:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.books)-1 {
			v.selected++
		}
	case "enter":
		if book := v.selectedBook(); book != nil {
			id := book.ID
			return v, func() tea.Msg {
				return messages.OpenBookRequested{BookID: id}
			}
		}
	case "d":
		if book := v.selectedBook(); book != nil {
			id := book.ID
			return v, func() tea.Msg {
				return messages.DeleteBookRequested{BookID: id}
			}
		}
	case "r":
		return v, v.loadBooks()
	}

	return v, nil
}

func (v *View) selectedBook() *domain.BookRecord {
	if v.selected < 0 || v.selected >= len(v.books) {
		return nil
	}
	return &v.books[v.selected]
}

// Reload refreshes the listing, keeping the selection where possible.
func (v *View) Reload() tea.Cmd {
	return v.loadBooks()
}

// View renders the library view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Library"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	case len(v.books) == 0:
		b.WriteString(v.styles.Muted.Render("No books yet. Import one with: lumen library add <file>"))
	default:
		for i := range v.books {
			b.WriteString(v.renderBook(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter open · d delete · r reload · q quit"))
	return b.String()
}

func (v *View) renderBook(i int) string {
	book := &v.books[i]
	title := book.Name
	if book.Metadata != nil && book.Metadata.Title != "" {
		title = book.Metadata.Title
	}

	line := fmt.Sprintf("%-40.40s %3.0f%%", title, book.Percentage*100)
	if book.PageCount > 0 {
		line += fmt.Sprintf("  %d pages", book.PageCount)
		if book.PageCountEstimated {
			line += " (est.)"
		}
	}

	if i == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}
