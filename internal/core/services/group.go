package services

import (
	"github.com/google/uuid"
)

// TabKind discriminates what a tab hosts.
type TabKind int

const (
	// TabKindBook is a tab hosting an open book.
	TabKindBook TabKind = iota

	// TabKindPage is an auxiliary application page (library, settings).
	TabKindPage
)

// Tab is one entry in a group's tab strip. Exactly one variant is
// populated: Book for TabKindBook, nothing beyond ID and Title for
// TabKindPage.
type Tab struct {
	Kind  TabKind
	ID    string
	Title string
	Book  *BookTab
}

// TabSpec describes a tab to open.
type TabSpec struct {
	Kind TabKind

	// BookID selects the book for TabKindBook.
	BookID string

	// PageID identifies the auxiliary page for TabKindPage. It doubles
	// as the tab ID, so opening the same page twice focuses the
	// existing tab.
	PageID string

	// Title is the initial tab title. Book tabs refine it once
	// metadata is available.
	Title string
}

// Group is an ordered list of tabs with one selected tab. A group with
// tabs always has a valid selection; only an empty group has a
// selection index of -1.
type Group struct {
	ID            string
	Tabs          []Tab
	SelectedIndex int
}

func newGroup() *Group {
	return &Group{
		ID:            uuid.NewString(),
		Tabs:          nil,
		SelectedIndex: -1,
	}
}

// Selected returns the selected tab, or nil for an empty group.
func (g *Group) Selected() *Tab {
	if g.SelectedIndex < 0 || g.SelectedIndex >= len(g.Tabs) {
		return nil
	}
	return &g.Tabs[g.SelectedIndex]
}

// indexOf returns the position of the tab with the given ID, or -1.
func (g *Group) indexOf(id string) int {
	for i := range g.Tabs {
		if g.Tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// addTab inserts a tab directly after the selected one and selects it.
// If a tab with the same ID already exists it is selected instead and
// the existing tab is returned.
func (g *Group) addTab(tab Tab) *Tab {
	if i := g.indexOf(tab.ID); i >= 0 {
		g.SelectedIndex = i
		return &g.Tabs[i]
	}
	at := g.SelectedIndex + 1
	g.Tabs = append(g.Tabs[:at:at], append([]Tab{tab}, g.Tabs[at:]...)...)
	g.SelectedIndex = at
	return &g.Tabs[at]
}

// removeTab removes the tab with the given ID and returns it. The
// selection moves to the tab now occupying the removed slot, or the
// last tab when the removed one was last, or -1 when the group empties.
func (g *Group) removeTab(id string) *Tab {
	i := g.indexOf(id)
	if i < 0 {
		return nil
	}
	removed := g.Tabs[i]
	g.Tabs = append(g.Tabs[:i:i], g.Tabs[i+1:]...)
	g.SelectedIndex = min(i, len(g.Tabs)-1)
	return &removed
}

// replaceTab swaps the tab with the given ID for a new one in place,
// keeping the slot's position and the group's selection.
func (g *Group) replaceTab(id string, tab Tab) *Tab {
	i := g.indexOf(id)
	if i < 0 {
		return nil
	}
	g.Tabs[i] = tab
	return &g.Tabs[i]
}

// selectTab moves the selection to the tab with the given ID.
func (g *Group) selectTab(id string) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	g.SelectedIndex = i
	return true
}
