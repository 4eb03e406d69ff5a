package library

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// recordingLibrary captures Import calls.
type recordingLibrary struct {
	mu      sync.Mutex
	imports map[string][]byte
}

func (l *recordingLibrary) Import(_ context.Context, name string, data []byte) (*domain.BookRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.imports == nil {
		l.imports = make(map[string][]byte)
	}
	l.imports[name] = data
	return &domain.BookRecord{ID: name, Name: name}, nil
}

func (l *recordingLibrary) List(context.Context) ([]domain.BookRecord, error) { return nil, nil }

func (l *recordingLibrary) Get(_ context.Context, id string) (*domain.BookRecord, error) {
	return nil, domain.ErrNotFound
}

func (l *recordingLibrary) Delete(context.Context, string) error { return nil }

func (l *recordingLibrary) imported(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.imports[name]
	return ok
}

func TestWatcherImportsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.epub"), []byte("bytes"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0600))

	lib := &recordingLibrary{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWatcher(dir, lib).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return lib.imported("old.epub")
	}, 3*time.Second, 10*time.Millisecond)
	assert.False(t, lib.imported("notes.txt"), "non-book files ignored")

	cancel()
	<-done
}

func TestWatcherImportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	lib := &recordingLibrary{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWatcher(dir, lib).Run(ctx)
	}()

	// Give the watcher a moment to register before dropping the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.EPUB"), []byte("bytes"), 0600))

	require.Eventually(t, func() bool {
		return lib.imported("new.EPUB")
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestIsBookFile(t *testing.T) {
	assert.True(t, isBookFile("moby.epub"))
	assert.True(t, isBookFile("MOBY.EPUB"))
	assert.False(t, isBookFile("moby.pdf"))
	assert.False(t, isBookFile("moby"))
}
