package services

import (
	"context"
	"math"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// Estimator derives a page count for a book, trying progressively
// weaker sources:
//
//  1. A cached exact mapping stored on the record from a prior run.
//  2. The publication's embedded page list.
//  3. A size heuristic over the archive's spine entries.
//  4. A flat fallback constant.
//
// Tiers 1 and 2 produce exact counts; 3 and 4 are flagged as estimates.
type Estimator struct {
	cfg domain.PaginationConfig
}

// NewEstimator creates an estimator with the given calibration.
func NewEstimator(cfg domain.PaginationConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate derives the page count for an open book. It never fails; at
// worst it returns the fallback constant.
func (e *Estimator) Estimate(ctx context.Context, record *domain.BookRecord, book driven.Book) domain.PageEstimate {
	e.restoreLocations(record, book)
	if est, ok := e.fromCache(record); ok {
		logger.Debug("page count for %s from cached count: %d", record.ID, est.PageCount)
		return est
	}
	if est, ok := e.fromPageList(ctx, book); ok {
		logger.Debug("page count for %s from embedded page list: %d", record.ID, est.PageCount)
		return est
	}
	if est, ok := e.fromArchiveSizes(book); ok {
		logger.Debug("page count for %s from size heuristic: %d", record.ID, est.PageCount)
		return est
	}
	logger.Debug("page count for %s from fallback constant", record.ID)
	return domain.PageEstimate{PageCount: e.cfg.FallbackPageCount, Estimated: true}
}

// restoreLocations reloads a position-to-page mapping persisted by an
// earlier run, when the record carries one and the book can reload it.
// A failed restore only costs the mapping; it never changes which tier
// wins.
func (e *Estimator) restoreLocations(record *domain.BookRecord, book driven.Book) {
	data, ok := record.Configuration["locations"].(string)
	if !ok || data == "" {
		return
	}
	restorer, ok := book.(driven.LocationRestorer)
	if !ok {
		return
	}
	if err := restorer.RestoreLocations(data); err != nil {
		logger.Debug("restoring cached mapping for %s: %v", record.ID, err)
	}
}

// fromCache reuses the page count persisted by an earlier run. Only an
// exact prior count short-circuits; a cached estimate is recomputed so
// a stronger source can replace it.
func (e *Estimator) fromCache(record *domain.BookRecord) (domain.PageEstimate, bool) {
	if record.PageCount > 0 && !record.PageCountEstimated {
		return domain.PageEstimate{PageCount: record.PageCount, Estimated: false}, true
	}
	return domain.PageEstimate{}, false
}

// fromPageList counts pages from the publication's own page markers:
// highest page minus lowest plus one.
func (e *Estimator) fromPageList(ctx context.Context, book driven.Book) (domain.PageEstimate, bool) {
	markers, err := book.PageList(ctx)
	if err != nil || len(markers) == 0 {
		return domain.PageEstimate{}, false
	}
	lo, hi := markers[0].Page, markers[0].Page
	for _, m := range markers[1:] {
		if m.Page < lo {
			lo = m.Page
		}
		if m.Page > hi {
			hi = m.Page
		}
	}
	return domain.PageEstimate{PageCount: hi - lo + 1, Estimated: false}, true
}

// fromArchiveSizes approximates pages from the stored sizes of the
// spine entries. Entries with a known uncompressed size contribute
// size/CharsPerPage pages; compressed-only entries are scaled up by
// CompressedFactor and divided by CompressedDivisor.
func (e *Estimator) fromArchiveSizes(book driven.Book) (domain.PageEstimate, bool) {
	entries := book.ArchiveSizes()
	if len(entries) == 0 {
		return domain.PageEstimate{}, false
	}
	pages := 0.0
	for _, entry := range entries {
		if entry.Uncompressed > 0 {
			pages += float64(entry.Uncompressed) / float64(e.cfg.CharsPerPage)
		} else if entry.Compressed > 0 {
			pages += float64(entry.Compressed) * e.cfg.CompressedFactor / float64(e.cfg.CompressedDivisor)
		}
	}
	if pages <= 0 {
		return domain.PageEstimate{}, false
	}
	count := int(math.Ceil(pages))
	if count < 1 {
		count = 1
	}
	return domain.PageEstimate{PageCount: count, Estimated: true}, true
}
