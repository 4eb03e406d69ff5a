package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

func TestBookStoreSaveAndGet(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()

	rec := &domain.BookRecord{ID: "b1", Name: "moby.epub", Percentage: 0.25}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "moby.epub", got.Name)
	assert.Equal(t, 0.25, got.Percentage)

	// The store holds a copy, not the caller's pointer.
	rec.Name = "mutated"
	got, err = store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "moby.epub", got.Name)
}

func TestBookStoreGetNotFound(t *testing.T) {
	store := NewBookStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookStoreUpdateAppliesPartial(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.BookRecord{ID: "b1", Name: "a.epub", Percentage: 0.1}))

	cfi := "epubcfi(/6/0004!/00000123)"
	pct := 0.5
	require.NoError(t, store.Update(ctx, "b1", domain.BookUpdate{CFI: &cfi, Percentage: &pct}))

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, cfi, got.CFI)
	assert.Equal(t, 0.5, got.Percentage)
	assert.Equal(t, "a.epub", got.Name, "untouched fields survive")
}

func TestBookStoreUpdateNotFound(t *testing.T) {
	store := NewBookStore()

	err := store.Update(context.Background(), "nope", domain.BookUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookStoreDeleteAndList(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.BookRecord{ID: "b1"}))
	require.NoError(t, store.Save(ctx, &domain.BookRecord{ID: "b2"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.Delete(ctx, "b1"))
	assert.ErrorIs(t, store.Delete(ctx, "b1"), domain.ErrNotFound)

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b2", list[0].ID)
}
