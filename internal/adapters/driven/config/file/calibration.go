package file

import (
	"time"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// Configuration keys for the tuning knobs of the reading engine.
const (
	KeyCharsPerPage      = "pagination.chars_per_page"
	KeyCompressedDivisor = "pagination.compressed_divisor"
	KeyCompressedFactor  = "pagination.compressed_factor"
	KeyFallbackPages     = "pagination.fallback_page_count"
	KeySearchDebounceMS  = "search.debounce_ms"
)

// PaginationConfig reads the page-count calibration, falling back to
// defaults for unset keys.
func (s *ConfigStore) PaginationConfig() domain.PaginationConfig {
	cfg := domain.DefaultPaginationConfig()
	if v := s.GetInt(KeyCharsPerPage); v > 0 {
		cfg.CharsPerPage = v
	}
	if v := s.GetInt(KeyCompressedDivisor); v > 0 {
		cfg.CompressedDivisor = v
	}
	if v := s.GetFloat(KeyCompressedFactor); v > 0 {
		cfg.CompressedFactor = v
	}
	if v := s.GetInt(KeyFallbackPages); v > 0 {
		cfg.FallbackPageCount = v
	}
	return cfg
}

// SearchConfig reads the search behaviour, falling back to defaults for
// unset keys.
func (s *ConfigStore) SearchConfig() domain.SearchConfig {
	cfg := domain.DefaultSearchConfig()
	if v := s.GetInt(KeySearchDebounceMS); v > 0 {
		cfg.Debounce = time.Duration(v) * time.Millisecond
	}
	return cfg
}
