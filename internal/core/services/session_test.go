package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

func newTestSession(t *testing.T, bookIDs ...string) (*Session, *mockBookStore) {
	t.Helper()
	records := make([]*domain.BookRecord, len(bookIDs))
	for i, id := range bookIDs {
		records[i] = &domain.BookRecord{ID: id, Name: id, Configuration: map[string]any{}}
	}
	books := newMockBookStore(records...)
	return NewSession(books, newMockFileStore(), &mockEngine{book: &mockBook{}}), books
}

func pageSpec(id string) TabSpec {
	return TabSpec{Kind: TabKindPage, PageID: id, Title: id}
}

func TestSessionStartsWithOneEmptyGroup(t *testing.T) {
	s, _ := newTestSession(t)

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 0, s.FocusedIndex())
	assert.Nil(t, s.FocusedTab())
}

func TestSessionAddTabOpensBook(t *testing.T) {
	s, _ := newTestSession(t, "b1")

	tab, err := s.AddTab(context.Background(), TabSpec{Kind: TabKindBook, BookID: "b1"}, -1)
	require.NoError(t, err)

	assert.Equal(t, TabKindBook, tab.Kind)
	assert.Equal(t, "b1", tab.ID)
	require.NotNil(t, tab.Book)
	assert.Equal(t, StateUnloaded, tab.Book.State())

	focused := s.FocusedTab()
	require.NotNil(t, focused)
	assert.Equal(t, "b1", focused.ID)
}

func TestSessionAddTabUnknownBook(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.AddTab(context.Background(), TabSpec{Kind: TabKindBook, BookID: "nope"}, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionAddTabExistingIDFocuses(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddTab(ctx, pageSpec("library"), -1)
	require.NoError(t, err)
	_, err = s.AddTab(ctx, pageSpec("settings"), -1)
	require.NoError(t, err)

	_, err = s.AddTab(ctx, pageSpec("library"), -1)
	require.NoError(t, err)

	g := s.FocusedGroup()
	require.Len(t, g.Tabs, 2)
	assert.Equal(t, 0, g.SelectedIndex)
}

func TestSessionRemoveLastTabRemovesGroup(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddTab(ctx, pageSpec("library"), -1)
	require.NoError(t, err)
	s.AddGroup()
	_, err = s.AddTab(ctx, pageSpec("settings"), -1)
	require.NoError(t, err)
	require.Len(t, s.Groups(), 2)

	removed, err := s.RemoveTab(1, "settings")
	require.NoError(t, err)
	assert.Equal(t, "settings", removed.ID)

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 0, s.FocusedIndex())
}

func TestSessionRemoveLastTabOfOnlyGroupRemovesGroup(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddTab(ctx, pageSpec("library"), -1)
	require.NoError(t, err)

	removed, err := s.RemoveTab(-1, "library")
	require.NoError(t, err)
	assert.Equal(t, "library", removed.ID)

	assert.Empty(t, s.Groups())
	assert.Equal(t, -1, s.FocusedIndex())
	assert.Nil(t, s.FocusedTab())
}

func TestSessionAddGroupInsertsAfterFocused(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddTab(ctx, pageSpec("a"), -1)
	require.NoError(t, err)
	first := s.Groups()[0]

	second := s.AddGroup()
	assert.Equal(t, 1, s.FocusedIndex())

	require.NoError(t, s.SelectGroup(0))
	third := s.AddGroup()

	groups := s.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, first.ID, groups[0].ID)
	assert.Equal(t, third.ID, groups[1].ID, "new group lands right after focused")
	assert.Equal(t, second.ID, groups[2].ID)
	assert.Equal(t, 1, s.FocusedIndex())
}

func TestSessionRemoveGroupClampsFocus(t *testing.T) {
	s, _ := newTestSession(t)
	s.AddGroup()
	s.AddGroup()
	require.Equal(t, 2, s.FocusedIndex())

	require.NoError(t, s.RemoveGroup(2))
	assert.Equal(t, 1, s.FocusedIndex())
	assert.Len(t, s.Groups(), 2)
}

func TestSessionRemoveOnlyGroupEmptiesSession(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	_, err := s.AddTab(ctx, pageSpec("a"), -1)
	require.NoError(t, err)

	require.NoError(t, s.RemoveGroup(0))

	assert.Empty(t, s.Groups())
	assert.Equal(t, -1, s.FocusedIndex())
}

func TestSessionRemoveGroupFocusFollowsSlot(t *testing.T) {
	s, _ := newTestSession(t)
	s.AddGroup()
	s.AddGroup()
	require.NoError(t, s.SelectGroup(2))

	require.NoError(t, s.RemoveGroup(0))
	assert.Equal(t, 0, s.FocusedIndex(), "focus moves to the removed slot")
}

func TestSessionSelectGroupOutOfRange(t *testing.T) {
	s, _ := newTestSession(t)
	assert.ErrorIs(t, s.SelectGroup(5), domain.ErrNotFound)
	assert.ErrorIs(t, s.SelectGroup(-1), domain.ErrNotFound)
}

func TestSessionReplaceTab(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	_, err := s.AddTab(ctx, pageSpec("a"), -1)
	require.NoError(t, err)
	_, err = s.AddTab(ctx, pageSpec("b"), -1)
	require.NoError(t, err)

	tab, err := s.ReplaceTab(ctx, "a", pageSpec("c"))
	require.NoError(t, err)
	assert.Equal(t, "c", tab.ID)

	g := s.FocusedGroup()
	assert.Equal(t, []string{"c", "b"}, tabIDs(g))
	assert.Equal(t, 1, g.SelectedIndex)
}

func TestSessionClear(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	_, err := s.AddTab(ctx, pageSpec("a"), -1)
	require.NoError(t, err)
	s.AddGroup()
	_, err = s.AddTab(ctx, pageSpec("b"), -1)
	require.NoError(t, err)

	s.Clear()

	assert.Empty(t, s.Groups())
	assert.Equal(t, -1, s.FocusedIndex())
	assert.Nil(t, s.FocusedTab())
}

func TestSessionAddTabAfterClearCreatesGroup(t *testing.T) {
	s, _ := newTestSession(t)
	s.Clear()

	_, err := s.AddTab(context.Background(), pageSpec("library"), -1)
	require.NoError(t, err)

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 0, s.FocusedIndex())
	require.NotNil(t, s.FocusedTab())
	assert.Equal(t, "library", s.FocusedTab().ID)
}

func TestSessionAddTabUnknownGroupCreatesOne(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	_, err := s.AddTab(ctx, pageSpec("a"), -1)
	require.NoError(t, err)

	_, err = s.AddTab(ctx, pageSpec("b"), 7)
	require.NoError(t, err)

	groups := s.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 1, s.FocusedIndex(), "fresh group lands after the focused one")
	assert.Equal(t, []string{"b"}, tabIDs(groups[1]))
}

func TestSessionSubscribeNotifiesOnMutation(t *testing.T) {
	s, _ := newTestSession(t)

	notified := make(chan struct{}, 16)
	unsubscribe := s.Subscribe(func() { notified <- struct{}{} })

	_, err := s.AddTab(context.Background(), pageSpec("a"), -1)
	require.NoError(t, err)

	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("no notification after AddTab")
	}

	unsubscribe()
	drain(notified)
	s.AddGroup()
	select {
	case <-notified:
		t.Fatal("notified after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func drain(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
