// Package sqlite provides the persistent storage backend.
//
// A single database file holds the book records, the raw book content,
// cover images and reading sessions. The Store type owns the
// connection; the individual driven store interfaces are exposed
// through wrapper types so callers depend only on the ports they need.
//
// Schema changes go through embedded migrations in the migrations
// subpackage, applied in order on startup and tracked in a
// schema_migrations table.
package sqlite
