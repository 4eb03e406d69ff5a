// Package toc provides the table of contents view component for the TUI.
package toc

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// View is the table of contents view for the focused book tab.
type View struct {
	styles  *styles.Styles
	session *services.Session

	selected int
	width    int
	height   int
	err      error
}

// NewView creates a new table of contents view.
func NewView(s *styles.Styles, session *services.Session) *View {
	return &View{
		styles:  s,
		session: session,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// items returns the flattened outline of the focused tab.
func (v *View) items() []domain.FlatNavItem {
	tab := v.session.FocusedBookTab()
	if tab == nil {
		return nil
	}
	return tab.FlattenedTOC()
}

// Update handles messages for the table of contents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	items := v.items()
	if v.selected >= len(items) {
		v.selected = len(items) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(items)-1 {
			v.selected++
		}
	case " ", "right":
		if v.selected < len(items) {
			if tab := v.session.FocusedBookTab(); tab != nil {
				tab.Toggle(items[v.selected].ID)
			}
		}
	case "enter":
		if v.selected < len(items) {
			href := items[v.selected].Href
			return v, func() tea.Msg {
				return messages.NavigateRequested{Target: href}
			}
		}
	}

	return v, nil
}

// View renders the table of contents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Contents"))
	b.WriteString("\n\n")

	items := v.items()
	if len(items) == 0 {
		b.WriteString(v.styles.Muted.Render("No outline available."))
		return b.String()
	}

	for i, item := range items {
		marker := "  "
		if len(item.Subitems) > 0 {
			if item.Expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		line := fmt.Sprintf("%s%s%s", strings.Repeat("  ", item.Depth), marker, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter go · space expand · esc back"))
	return b.String()
}
