package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"os"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.Engine = (*Engine)(nil)

// Engine opens EPUB content.
type Engine struct{}

// NewEngine creates the EPUB engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Open writes the content to a temporary file and parses it. The file
// is removed when the returned Book is closed.
func (e *Engine) Open(_ context.Context, data []byte) (driven.Book, error) {
	if len(data) == 0 {
		return nil, domain.ErrNoContent
	}

	tmp, err := os.CreateTemp("", "lumen-*.epub")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	rc, err := epub.OpenReader(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}
	if len(rc.Rootfiles) == 0 {
		rc.Close()
		os.Remove(path)
		return nil, fmt.Errorf("no rootfiles in archive: %w", domain.ErrUnsupportedFormat)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		rc.Close()
		os.Remove(path)
		return nil, fmt.Errorf("reopening archive: %w", err)
	}

	logger.Debug("opened epub (%d bytes, %d manifest items)", len(data), len(rc.Rootfiles[0].Manifest.Items))
	return &Book{
		path:     path,
		rc:       rc,
		rootfile: rc.Rootfiles[0],
		zr:       zr,
	}, nil
}
