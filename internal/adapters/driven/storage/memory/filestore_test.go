package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()

	require.NoError(t, store.SaveFile(ctx, "b1", []byte("epub-bytes")))
	require.NoError(t, store.SaveCover(ctx, "b1", []byte("jpeg-bytes")))

	data, err := store.GetFile(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("epub-bytes"), data)

	cover, err := store.GetCover(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), cover)
}

func TestFileStoreNotFound(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()

	_, err := store.GetFile(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetCover(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStoreDeleteRemovesCoverToo(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()
	require.NoError(t, store.SaveFile(ctx, "b1", []byte("epub-bytes")))
	require.NoError(t, store.SaveCover(ctx, "b1", []byte("jpeg-bytes")))

	require.NoError(t, store.DeleteFile(ctx, "b1"))

	_, err := store.GetFile(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetCover(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStoreCopiesData(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()

	data := []byte("original")
	require.NoError(t, store.SaveFile(ctx, "b1", data))
	data[0] = 'X'

	got, err := store.GetFile(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}
