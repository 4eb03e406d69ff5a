// Package search provides the in-book search view component for the TUI.
package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// row is one display line of the result tree.
type row struct {
	id     string
	label  string
	cfi    string
	depth  int
	isLeaf bool
}

// View is the in-book search view for the focused book tab.
type View struct {
	styles  *styles.Styles
	session *services.Session

	input    textinput.Model
	typing   bool
	selected int
	width    int
	height   int
}

// NewView creates a new search view.
func NewView(s *styles.Styles, session *services.Session) *View {
	input := textinput.New()
	input.Placeholder = "Search in book..."
	input.CharLimit = 100
	input.Focus()

	return &View{
		styles:  s,
		session: session,
		input:   input,
		typing:  true,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Focus resets the view to the input line, keeping the keyword.
func (v *View) Focus() tea.Cmd {
	v.typing = true
	v.selected = 0
	if tab := v.session.FocusedBookTab(); tab != nil {
		v.input.SetValue(tab.Keyword())
	}
	return v.input.Focus()
}

// rows flattens the result tree of the focused tab for display.
func (v *View) rows() []row {
	tab := v.session.FocusedBookTab()
	if tab == nil {
		return nil
	}
	var rows []row
	for _, section := range tab.Results() {
		label := fmt.Sprintf("%s (%d)", section.Excerpt, len(section.Subitems))
		if section.Description != "" {
			label = section.Description + " / " + label
		}
		rows = append(rows, row{
			id:    section.ID,
			label: label,
		})
		if !section.Expanded {
			continue
		}
		for _, hit := range section.Subitems {
			rows = append(rows, row{
				id:     hit.ID,
				label:  hit.Excerpt,
				cfi:    hit.CFI,
				depth:  1,
				isLeaf: true,
			})
		}
	}
	return rows
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.typing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.typing {
		return v.handleTypingKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleTypingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter", "down":
		if len(v.rows()) > 0 {
			v.typing = false
			v.input.Blur()
			v.selected = 0
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if tab := v.session.FocusedBookTab(); tab != nil {
		tab.SetKeyword(v.input.Value())
	}
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	rows := v.rows()
	if v.selected >= len(rows) {
		v.selected = len(rows) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		} else {
			v.typing = true
			return v, v.input.Focus()
		}
	case "down", "j":
		if v.selected < len(rows)-1 {
			v.selected++
		}
	case " ", "right", "left":
		if v.selected < len(rows) && !rows[v.selected].isLeaf {
			if tab := v.session.FocusedBookTab(); tab != nil {
				tab.ToggleResult(rows[v.selected].id)
			}
		}
	case "enter":
		if v.selected < len(rows) {
			if rows[v.selected].isLeaf {
				cfi := rows[v.selected].cfi
				return v, func() tea.Msg {
					return messages.NavigateRequested{Target: cfi}
				}
			}
			if tab := v.session.FocusedBookTab(); tab != nil {
				tab.ToggleResult(rows[v.selected].id)
			}
		}
	}

	return v, nil
}

// View renders the search view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n\n")

	rows := v.rows()
	keyword := ""
	if tab := v.session.FocusedBookTab(); tab != nil {
		keyword = tab.Keyword()
	}

	switch {
	case keyword == "":
		b.WriteString(v.styles.Muted.Render("Type to search the open book."))
	case len(rows) == 0:
		b.WriteString(v.styles.Muted.Render("No matches."))
	default:
		for i, r := range rows {
			b.WriteString(v.renderRow(r, i == v.selected && !v.typing))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter go · space expand · esc back"))
	return b.String()
}

func (v *View) renderRow(r row, selected bool) string {
	label := r.label
	if len(label) > 76 {
		label = label[:75] + "…"
	}
	line := strings.Repeat("  ", r.depth) + label

	switch {
	case selected:
		return v.styles.Selected.Render("> " + line)
	case r.isLeaf:
		return v.styles.Normal.Render("  " + line)
	default:
		return v.styles.Subtitle.Render("  " + line)
	}
}
