package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/storage/memory"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// stubEngine refuses to open anything. App tests exercise navigation
// between views, not book parsing.
type stubEngine struct{}

func (stubEngine) Open(context.Context, []byte) (driven.Book, error) {
	return nil, domain.ErrUnsupportedFormat
}

// stubLibrary serves a fixed listing.
type stubLibrary struct {
	books []domain.BookRecord
}

func (s *stubLibrary) Import(_ context.Context, name string, _ []byte) (*domain.BookRecord, error) {
	return &domain.BookRecord{ID: name}, nil
}

func (s *stubLibrary) List(context.Context) ([]domain.BookRecord, error) {
	return s.books, nil
}

func (s *stubLibrary) Get(_ context.Context, id string) (*domain.BookRecord, error) {
	return nil, domain.ErrNotFound
}

func (s *stubLibrary) Delete(context.Context, string) error { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	session := services.NewSession(memory.NewBookStore(), memory.NewFileStore(), stubEngine{})
	t.Cleanup(session.Clear)

	app, err := NewApp(&Ports{
		Session: session,
		Library: &stubLibrary{books: []domain.BookRecord{{ID: "abc", Name: "whale.epub"}}},
	})
	require.NoError(t, err)
	return app
}

// resize marks the app ready with a fixed terminal size.
func resize(app *App) {
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
}

func TestNewApp_RequiresSession(t *testing.T) {
	_, err := NewApp(&Ports{Library: &stubLibrary{}})
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestNewApp_RequiresLibrary(t *testing.T) {
	session := services.NewSession(memory.NewBookStore(), memory.NewFileStore(), stubEngine{})
	defer session.Clear()

	_, err := NewApp(&Ports{Session: session})
	assert.ErrorIs(t, err, ErrMissingLibraryService)
}

func TestApp_StartsOnLibraryView(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, messages.ViewLibrary, app.CurrentView())
}

func TestApp_NotReadyBeforeFirstResize(t *testing.T) {
	app := newTestApp(t)
	assert.Contains(t, app.View(), "Initialising")

	resize(app)
	assert.NotContains(t, app.View(), "Initialising")
}

func TestApp_ShowsBooksAfterLoad(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	app.Update(messages.BooksLoaded{Books: []domain.BookRecord{{ID: "abc", Name: "whale.epub"}}})

	assert.Contains(t, app.View(), "whale.epub")
}

func TestApp_QuitKey(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpToggles(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewReader, app.CurrentView())
}

func TestApp_TOCRequiresOpenBook(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	assert.Equal(t, messages.ViewLibrary, app.CurrentView())
}

func TestApp_OpenBookFailureStaysOnLibrary(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	cmd := app.openBook("missing")
	msg := cmd()

	opened, ok := msg.(messages.BookOpened)
	require.True(t, ok)
	assert.Error(t, opened.Err)

	app.Update(opened)
	assert.Equal(t, messages.ViewLibrary, app.CurrentView())
}

func TestApp_ViewChangedMessage(t *testing.T) {
	app := newTestApp(t)
	resize(app)

	app.Update(messages.ViewChanged{View: messages.ViewReader})
	assert.Equal(t, messages.ViewReader, app.CurrentView())
}
