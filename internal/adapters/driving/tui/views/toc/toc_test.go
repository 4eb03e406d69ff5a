package toc

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/storage/memory"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

type stubEngine struct{}

func (stubEngine) Open(context.Context, []byte) (driven.Book, error) {
	return nil, domain.ErrUnsupportedFormat
}

func newTestView(t *testing.T) *View {
	t.Helper()
	session := services.NewSession(memory.NewBookStore(), memory.NewFileStore(), stubEngine{})
	t.Cleanup(session.Clear)
	return NewView(styles.DefaultStyles(), session)
}

func TestTOCView_NoOutline(t *testing.T) {
	v := newTestView(t)
	assert.Contains(t, v.View(), "No outline available")
}

func TestTOCView_KeysWithoutItemsAreSafe(t *testing.T) {
	v := newTestView(t)

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Nil(t, cmd)
	require.NotNil(t, v)
}

func TestTOCView_Messages(t *testing.T) {
	// NavigateRequested carries the href untouched.
	msg := messages.NavigateRequested{Target: "ch2.xhtml#anchor"}
	assert.Equal(t, "ch2.xhtml#anchor", msg.Target)
}
