// Package reader provides the multi-pane reading view component for the TUI.
package reader

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/messages"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui/styles"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
)

// highlightExcerpt caps the passage text captured with a highlight.
const highlightExcerpt = 80

// chromeLines is the vertical space a pane spends on tab bar, footer
// and separators.
const chromeLines = 4

// View is the reading view. It renders every tab group side by side
// and drives the focused tab.
type View struct {
	styles  *styles.Styles
	session *services.Session

	width  int
	height int
	err    error
}

// NewView creates a new reading view.
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

// SetSize propagates terminal dimensions to the session so open
// renditions repaginate for the new pane size.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	pw, ph := v.paneSize()
	v.session.Resize(pw, ph)
}

// PaneSize returns the content area of a single pane.
func (v *View) PaneSize() (width, height int) {
	return v.paneSize()
}

func (v *View) paneSize() (width, height int) {
	groups := len(v.session.Groups())
	if groups < 1 {
		groups = 1
	}
	width = v.width/groups - 4
	if width < 20 {
		width = 20
	}
	height = v.height - chromeLines
	if height < 4 {
		height = 4
	}
	return width, height
}

// Update handles messages for the reading view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	tab := v.session.FocusedBookTab()

	switch msg.String() {
	case "right", "l", " ":
		if tab != nil {
			v.err = tab.Next()
		}
	case "left", "h":
		if tab != nil {
			v.err = tab.Prev()
		}
	case "u":
		if tab != nil {
			if prev := tab.PrevLocation(); prev != "" {
				v.err = tab.Display(prev, false)
				tab.HidePrevLocation()
			}
		}
	case "b":
		if tab != nil {
			v.toggleHighlight(tab)
		}
	case "tab":
		v.cycleTab(1)
	case "shift+tab":
		v.cycleTab(-1)
	case "x":
		v.closeSelectedTab()
	case "s":
		v.session.AddGroup()
		pw, ph := v.paneSize()
		v.session.Resize(pw, ph)
	case "w":
		groups := v.session.Groups()
		if len(groups) > 1 {
			next := (v.session.FocusedIndex() + 1) % len(groups)
			v.err = v.session.SelectGroup(next)
		}
	}

	return v, nil
}

// toggleHighlight drops or removes a highlight at the current position.
func (v *View) toggleHighlight(tab *services.BookTab) {
	loc := tab.Location()
	if loc == nil {
		return
	}
	if domain.FindAnnotation(tab.Annotations(), loc.CFI) >= 0 {
		tab.RemoveAnnotation(loc.CFI)
		return
	}
	text := tab.Content()
	if r := []rune(text); len(r) > highlightExcerpt {
		text = string(r[:highlightExcerpt])
	}
	tab.PutAnnotation(domain.Annotation{
		CFI:   loc.CFI,
		Type:  domain.AnnotationHighlight,
		Color: domain.ColorYellow,
		Text:  text,
	})
}

// cycleTab selects the neighbouring tab in the focused group.
func (v *View) cycleTab(delta int) {
	group := v.session.FocusedGroup()
	if group == nil || len(group.Tabs) < 2 {
		return
	}
	next := (group.SelectedIndex + delta + len(group.Tabs)) % len(group.Tabs)
	v.err = v.session.SelectTab(group.Tabs[next].ID)
}

// closeSelectedTab removes the selected tab of the focused group.
func (v *View) closeSelectedTab() {
	group := v.session.FocusedGroup()
	if group == nil {
		return
	}
	selected := group.Selected()
	if selected == nil {
		return
	}
	if _, err := v.session.RemoveTab(v.session.FocusedIndex(), selected.ID); err != nil {
		v.err = err
	}
	pw, ph := v.paneSize()
	v.session.Resize(pw, ph)
}

// View renders the reading view.
func (v *View) View() string {
	groups := v.session.Groups()
	if len(groups) == 0 {
		return v.styles.Muted.Render("No open books. Press L for the library.")
	}

	panes := make([]string, len(groups))
	for i, group := range groups {
		panes[i] = v.renderPane(group, i == v.session.FocusedIndex())
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	if v.err != nil {
		out += "\n" + v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err))
	}
	return out
}

// renderPane draws one tab group: tab bar, page content and footer.
func (v *View) renderPane(group *services.Group, focused bool) string {
	pw, ph := v.paneSize()

	var b strings.Builder
	b.WriteString(v.renderTabBar(group, focused))
	b.WriteString("\n\n")

	tab := group.Selected()
	switch {
	case tab == nil:
		b.WriteString(v.styles.Muted.Render("Empty pane. Press L to open a book."))
	case tab.Book == nil:
		b.WriteString(v.styles.Normal.Render(tab.Title))
	default:
		b.WriteString(v.renderBook(tab.Book, pw, ph))
	}

	style := v.styles.Border.Width(pw + 2)
	if focused {
		style = style.BorderForeground(v.styles.Theme().Primary)
	}
	return style.Render(b.String())
}

// renderTabBar draws the tab labels of a group.
func (v *View) renderTabBar(group *services.Group, focused bool) string {
	if len(group.Tabs) == 0 {
		return v.styles.InactiveTab.Render("(empty)")
	}
	labels := make([]string, len(group.Tabs))
	for i := range group.Tabs {
		title := group.Tabs[i].Title
		if title == "" {
			title = group.Tabs[i].ID
		}
		if len(title) > 20 {
			title = title[:19] + "…"
		}
		if i == group.SelectedIndex && focused {
			labels[i] = v.styles.ActiveTab.Render(title)
		} else {
			labels[i] = v.styles.InactiveTab.Render(title)
		}
	}
	return strings.Join(labels, v.styles.Muted.Render(" │ "))
}

// renderBook draws the current page and position footer of a book tab.
func (v *View) renderBook(tab *services.BookTab, width, height int) string {
	var b strings.Builder

	switch tab.State() {
	case services.StateLoading, services.StateUnloaded:
		if err := tab.LoadErr(); err != nil {
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Failed to open: %v", err)))
		} else {
			b.WriteString(v.styles.Muted.Render("Opening..."))
		}
		return b.String()
	}

	if !tab.Rendered() {
		b.WriteString(v.styles.Muted.Render("..."))
		return b.String()
	}

	lines := wrap(tab.Content(), width)
	if len(lines) > height {
		lines = lines[:height]
	}
	b.WriteString(v.styles.Page.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(v.renderFooter(tab, width))
	return b.String()
}

func (v *View) renderFooter(tab *services.BookTab, width int) string {
	loc := tab.Location()
	if loc == nil {
		return ""
	}

	record := tab.Record()
	footer := fmt.Sprintf("%d/%d", loc.DisplayedPage, loc.DisplayedTotal)
	if record != nil {
		footer += fmt.Sprintf(" · %.0f%%", record.Percentage*100)
	}
	if domain.FindAnnotation(tab.Annotations(), loc.CFI) >= 0 {
		footer += " · marked"
	}
	if prev := tab.PrevLocation(); prev != "" {
		footer += " · u to jump back"
	}
	return v.styles.StatusBar.Width(width).Render(footer)
}

// wrap cuts text into lines of at most width runes, breaking at the
// last space inside the window where possible.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	runes := []rune(text)
	var lines []string
	for start := 0; start < len(runes); {
		end := start + width
		if end >= len(runes) {
			lines = append(lines, string(runes[start:]))
			break
		}
		cut := end
		for i := end; i > start; i-- {
			if runes[i-1] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimRight(string(runes[start:cut]), " "))
		start = cut
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
