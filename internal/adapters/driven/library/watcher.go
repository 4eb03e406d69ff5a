// Package library watches a directory for new books and imports them.
package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Watcher imports book files dropped into a directory. Imports are
// rate limited so bulk copies do not hammer the parser.
type Watcher struct {
	dir     string
	library driving.LibraryService
	limiter *rate.Limiter
}

// NewWatcher creates a watcher over the given directory.
func NewWatcher(dir string, library driving.LibraryService) *Watcher {
	return &Watcher{
		dir:     dir,
		library: library,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Run watches until the context is cancelled. Existing files are
// imported on startup, then create and write events feed imports.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.importExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isBookFile(event.Name) {
				continue
			}
			w.importFile(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching %s: %v", w.dir, err)
		}
	}
}

func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("scanning %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isBookFile(entry.Name()) {
			continue
		}
		w.importFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}
	if _, err := w.library.Import(ctx, filepath.Base(path), data); err != nil {
		logger.Warn("importing %s: %v", path, err)
		return
	}
	logger.Info("imported %s from watch directory", filepath.Base(path))
}

// isBookFile reports whether a path looks like an importable book.
func isBookFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".epub")
}
