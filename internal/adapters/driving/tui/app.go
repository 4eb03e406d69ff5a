package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/keymap"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/views/library"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/views/reader"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/views/search"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/views/toc"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// surfaceID names the rendering surface the reader attaches tabs to.
const surfaceID = "tui"

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// libraryView is the book collection view component.
	libraryView *library.View

	// readerView is the multi-pane reading view component.
	readerView *reader.View

	// tocView is the table of contents view component.
	tocView *toc.View

	// searchView is the in-book search view component.
	searchView *search.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// pendingBookID is a book to open once the terminal size is known.
	pendingBookID string

	// unsubscribe detaches the session listener.
	unsubscribe func()

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		libraryView: library.NewView(s, ports.Library),
		readerView:  reader.NewView(s, ports.Session),
		tocView:     toc.NewView(s, ports.Session),
		searchView:  search.NewView(s, ports.Session),
		currentView: messages.ViewLibrary,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// OpenOnStart queues a book to be opened once the first window size
// arrives.
func (a *App) OpenOnStart(bookID string) {
	a.pendingBookID = bookID
}

// AttachProgram subscribes the running program to session changes so
// page turns and background loads trigger redraws.
func (a *App) AttachProgram(p *tea.Program) {
	a.unsubscribe = a.ports.Session.Subscribe(func() {
		p.Send(messages.SessionUpdated{})
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.libraryView.Init(), a.searchView.Init())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.forwardSize(msg)
		if a.pendingBookID != "" {
			bookID := a.pendingBookID
			a.pendingBookID = ""
			return a, a.openBook(bookID)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SessionUpdated:
		// State is pulled from the session on render.
		return a, nil

	case messages.OpenBookRequested:
		return a, a.openBook(msg.BookID)

	case messages.BookOpened:
		if msg.Err == nil {
			a.currentView = messages.ViewReader
			a.err = nil
		}
		a.libraryView, _ = a.libraryView.Update(msg)
		return a, nil

	case messages.DeleteBookRequested:
		return a, a.deleteBook(msg.BookID)

	case messages.BooksLoaded:
		a.libraryView, _ = a.libraryView.Update(msg)
		return a, nil

	case messages.NavigateRequested:
		if tab := a.ports.Session.FocusedBookTab(); tab != nil {
			a.err = tab.Display(msg.Target, true)
		}
		a.currentView = messages.ViewReader
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	return a.routeToCurrentView(msg)
}

// forwardSize propagates the new terminal size to every view.
func (a *App) forwardSize(msg tea.WindowSizeMsg) {
	body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
	a.libraryView, _ = a.libraryView.Update(body)
	a.readerView, _ = a.readerView.Update(body)
	a.tocView, _ = a.tocView.Update(body)
	a.searchView, _ = a.searchView.Update(body)
}

// handleKeyMsg handles global keys, then routes to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		return a.quit()
	}

	// While the search input is focused, printable keys belong to it.
	if a.currentView != messages.ViewSearch {
		switch {
		case keymap.Matches(keyStr, a.keys.Quit):
			return a.quit()
		case keymap.Matches(keyStr, a.keys.Help):
			if a.currentView == messages.ViewHelp {
				a.currentView = messages.ViewReader
			} else {
				a.currentView = messages.ViewHelp
			}
			return a, nil
		case keymap.Matches(keyStr, a.keys.Library):
			a.currentView = messages.ViewLibrary
			return a, a.libraryView.Reload()
		case keymap.Matches(keyStr, a.keys.TOC):
			if a.ports.Session.FocusedBookTab() != nil {
				a.currentView = messages.ViewTOC
			}
			return a, nil
		case keymap.Matches(keyStr, a.keys.Search):
			if a.ports.Session.FocusedBookTab() != nil {
				a.currentView = messages.ViewSearch
				return a, a.searchView.Focus()
			}
			return a, nil
		}
	}

	if keyStr == "esc" && a.currentView != messages.ViewReader {
		a.currentView = messages.ViewReader
		return a, nil
	}

	return a.routeToCurrentView(msg)
}

// routeToCurrentView forwards a message to the active view only.
func (a *App) routeToCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewTOC:
		a.tocView, cmd = a.tocView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// quit detaches from the session and stops the program.
func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	return a, tea.Quit
}

// openBook returns a command that opens a book in the focused group
// and attaches it to the rendering surface.
func (a *App) openBook(bookID string) tea.Cmd {
	ctx := a.ctx
	pw, ph := a.readerView.PaneSize()
	return func() tea.Msg {
		tab, err := a.ports.Session.AddTab(ctx, services.TabSpec{
			Kind:   services.TabKindBook,
			BookID: bookID,
		}, -1)
		if err != nil {
			return messages.BookOpened{BookID: bookID, Err: err}
		}
		if tab.Book != nil {
			if err := tab.Book.Render(ctx, surfaceID, pw, ph); err != nil {
				return messages.BookOpened{BookID: bookID, Err: err}
			}
		}
		return messages.BookOpened{BookID: bookID}
	}
}

// deleteBook returns a command that removes a book and reloads the
// library listing.
func (a *App) deleteBook(bookID string) tea.Cmd {
	ctx := a.ctx
	lib := a.ports.Library
	return func() tea.Msg {
		if err := lib.Delete(ctx, bookID); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		books, err := lib.List(ctx)
		return messages.BooksLoaded{Books: books, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewLibrary:
		body = a.libraryView.View()
	case messages.ViewReader:
		body = a.readerView.View()
	case messages.ViewTOC:
		body = a.tocView.View()
	case messages.ViewSearch:
		body = a.searchView.View()
	case messages.ViewHelp:
		body = a.helpView()
	}

	status := a.statusBar()
	return body + "\n" + status
}

// helpView renders the full keybinding reference.
func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("? or esc to close"))
	return b.String()
}

// statusBar renders the bottom status line.
func (a *App) statusBar() string {
	left := fmt.Sprintf(" %s ", a.currentView)
	if a.err != nil {
		left += a.styles.Error.Render(fmt.Sprintf("· %v ", a.err))
	}
	right := "? help · q quit"
	pad := a.width - len(left) - len(right) - 2
	if pad < 1 {
		pad = 1
	}
	return a.styles.StatusBar.Width(a.width).Render(left + strings.Repeat(" ", pad) + right)
}

// CurrentView returns the active view type, for tests.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}
