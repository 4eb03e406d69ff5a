// Package file provides TOML-backed application configuration.
//
// Configuration lives in ~/.lumen/config.toml. Nested tables are
// flattened into dot-notation keys, so [pagination] chars_per_page
// becomes "pagination.chars_per_page". Calibration readers translate
// the raw keys into the typed configs the core services consume,
// falling back to the shipped defaults for missing or zero values.
package file
