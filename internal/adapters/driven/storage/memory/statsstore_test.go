package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

func TestStatsStoreMergesSameDay(t *testing.T) {
	store := NewStatsStore()
	ctx := context.Background()

	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-30", BookID: "b1", Duration: 10, PagesRead: 4}))
	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-30", BookID: "b1", Duration: 5, PagesRead: 2}))
	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-30", BookID: "b2", Duration: 3, PagesRead: 1}))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 15, sessions[0].Duration)
	assert.Equal(t, 6, sessions[0].PagesRead)
}

func TestStatsStoreListsOldestFirst(t *testing.T) {
	store := NewStatsStore()
	ctx := context.Background()

	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-30", BookID: "b1", Duration: 1}))
	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-28", BookID: "b1", Duration: 1}))
	require.NoError(t, store.RecordSession(ctx, domain.ReadingSession{Date: "2026-08-29", BookID: "b1", Duration: 1}))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "2026-08-28", sessions[0].Date)
	assert.Equal(t, "2026-08-30", sessions[2].Date)
}
