// Package services contains the core reading-session logic.
//
// The central type is Session, the top-level state container for one
// reading run: an ordered list of Groups, each holding an ordered list
// of Tabs, with a single focused group at a time. Tabs hosting books
// are backed by a BookTab, which owns the open publication, its derived
// state (sections, outline, page count, search results) and the
// persistence of reading progress.
//
// Supporting services:
//
//   - Estimator: tiered page-count derivation
//   - Searcher: debounced full-book keyword scan
//   - Library: book collection import and management
//   - StatsTracker: reading time and streak accounting
//
// # Architectural Position
//
//   - Can Import: domain, ports (driven and driving), logger
//   - Cannot Import: Any adapter package
//
// All dependencies on infrastructure go through driven port interfaces.
package services
