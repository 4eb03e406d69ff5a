package domain

import "time"

// PaginationConfig holds the calibration constants of the page-count
// heuristic. The divisors are empirically tuned against mixed-content
// books; treat them as configuration to recalibrate, not invariants.
type PaginationConfig struct {
	// CharsPerPage divides uncompressed content bytes into pages.
	CharsPerPage int

	// CompressedDivisor divides expanded compressed bytes into pages.
	CompressedDivisor int

	// CompressedFactor expands compressed sizes when the archive does
	// not record uncompressed sizes.
	CompressedFactor float64

	// FallbackPageCount is used when every other tier fails.
	FallbackPageCount int
}

// DefaultPaginationConfig returns the shipped calibration.
func DefaultPaginationConfig() PaginationConfig {
	return PaginationConfig{
		CharsPerPage:      2600,
		CompressedDivisor: 1024,
		CompressedFactor:  1.2,
		FallbackPageCount: 300,
	}
}

// PageEstimate is the outcome of a pagination pass.
type PageEstimate struct {
	// PageCount is the estimated or authoritative page count.
	PageCount int

	// Estimated reports whether PageCount is a heuristic estimate.
	Estimated bool
}

// SearchConfig holds the tuning of the per-tab search.
type SearchConfig struct {
	// Debounce is the quiet period after the last keystroke before a
	// scan executes.
	Debounce time.Duration
}

// DefaultSearchConfig returns the shipped search tuning.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{Debounce: time.Second}
}
