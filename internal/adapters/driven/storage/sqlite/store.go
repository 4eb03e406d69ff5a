package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to the
// book, file and stats store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lumen/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lumen", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BookStore returns a BookStore interface backed by this store.
func (s *Store) BookStore() driven.BookStore {
	return &bookStore{store: s}
}

// FileStore returns a FileStore interface backed by this store.
func (s *Store) FileStore() driven.FileStore {
	return &fileStore{store: s}
}

// StatsStore returns a StatsStore interface backed by this store.
func (s *Store) StatsStore() driven.StatsStore {
	return &statsStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Book Store ====================

// bookStore implements driven.BookStore.
type bookStore struct {
	store *Store
}

var _ driven.BookStore = (*bookStore)(nil)

// Save stores or fully replaces a book record.
func (s *bookStore) Save(ctx context.Context, rec *domain.BookRecord) error {
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	annotationsJSON, err := json.Marshal(rec.Annotations)
	if err != nil {
		return fmt.Errorf("marshalling annotations: %w", err)
	}
	definitionsJSON, err := json.Marshal(rec.Definitions)
	if err != nil {
		return fmt.Errorf("marshalling definitions: %w", err)
	}
	configurationJSON, err := json.Marshal(rec.Configuration)
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO books (id, name, metadata, size, cfi, percentage, page_count,
			page_count_estimated, annotations, definitions, configuration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			metadata = excluded.metadata,
			size = excluded.size,
			cfi = excluded.cfi,
			percentage = excluded.percentage,
			page_count = excluded.page_count,
			page_count_estimated = excluded.page_count_estimated,
			annotations = excluded.annotations,
			definitions = excluded.definitions,
			configuration = excluded.configuration,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Name, string(metadataJSON), rec.Size, rec.CFI, rec.Percentage,
		rec.PageCount, boolToInt(rec.PageCountEstimated), string(annotationsJSON),
		string(definitionsJSON), string(configurationJSON), rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	return nil
}

// Get retrieves a book record by ID.
func (s *bookStore) Get(ctx context.Context, id string) (*domain.BookRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, metadata, size, cfi, percentage, page_count,
			page_count_estimated, annotations, definitions, configuration, created_at, updated_at
		FROM books WHERE id = ?
	`, id)

	return scanBook(row)
}

// Update applies a partial update through a read-modify-write. The
// database's busy timeout serializes concurrent writers.
func (s *bookStore) Update(ctx context.Context, id string, update domain.BookUpdate) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.Apply(update)
	return s.Save(ctx, rec)
}

// Delete removes a book record.
func (s *bookStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all book records.
func (s *bookStore) List(ctx context.Context) ([]domain.BookRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, metadata, size, cfi, percentage, page_count,
			page_count_estimated, annotations, definitions, configuration, created_at, updated_at
		FROM books ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []domain.BookRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanBookRows(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// ==================== File Store ====================

// fileStore implements driven.FileStore.
type fileStore struct {
	store *Store
}

var _ driven.FileStore = (*fileStore)(nil)

// SaveFile stores the raw content of a book.
func (s *fileStore) SaveFile(ctx context.Context, bookID string, data []byte) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO files (book_id, content) VALUES (?, ?)
		ON CONFLICT(book_id) DO UPDATE SET content = excluded.content
	`, bookID, data)
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

// GetFile retrieves the raw content of a book.
func (s *fileStore) GetFile(ctx context.Context, bookID string) ([]byte, error) {
	var data []byte
	err := s.store.db.QueryRowContext(ctx,
		"SELECT content FROM files WHERE book_id = ?", bookID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// DeleteFile removes the raw content and cover of a book.
func (s *fileStore) DeleteFile(ctx context.Context, bookID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM files WHERE book_id = ?", bookID); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM covers WHERE book_id = ?", bookID); err != nil {
		return fmt.Errorf("deleting cover: %w", err)
	}
	return nil
}

// SaveCover stores a book's cover image.
func (s *fileStore) SaveCover(ctx context.Context, bookID string, data []byte) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO covers (book_id, content) VALUES (?, ?)
		ON CONFLICT(book_id) DO UPDATE SET content = excluded.content
	`, bookID, data)
	if err != nil {
		return fmt.Errorf("saving cover: %w", err)
	}
	return nil
}

// GetCover retrieves a book's cover image.
func (s *fileStore) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	var data []byte
	err := s.store.db.QueryRowContext(ctx,
		"SELECT content FROM covers WHERE book_id = ?", bookID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cover: %w", err)
	}
	return data, nil
}

// ==================== Stats Store ====================

// statsStore implements driven.StatsStore.
type statsStore struct {
	store *Store
}

var _ driven.StatsStore = (*statsStore)(nil)

// RecordSession merges a session into the store.
func (s *statsStore) RecordSession(ctx context.Context, session domain.ReadingSession) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (date, book_id, duration, pages_read)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, book_id) DO UPDATE SET
			duration = duration + excluded.duration,
			pages_read = pages_read + excluded.pages_read
	`, session.Date, session.BookID, session.Duration, session.PagesRead)
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// ListSessions returns all recorded sessions, oldest first.
func (s *statsStore) ListSessions(ctx context.Context) ([]domain.ReadingSession, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT date, book_id, duration, pages_read
		FROM reading_sessions ORDER BY date, book_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ReadingSession //nolint:prealloc // size unknown from query
	for rows.Next() {
		var session domain.ReadingSession
		if err := rows.Scan(&session.Date, &session.BookID, &session.Duration, &session.PagesRead); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// ==================== Helper Functions ====================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBookFields(row scannable) (*domain.BookRecord, error) {
	var rec domain.BookRecord
	var metadataJSON, annotationsJSON, definitionsJSON, configurationJSON sql.NullString
	var estimated int
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&rec.ID, &rec.Name, &metadataJSON, &rec.Size, &rec.CFI,
		&rec.Percentage, &rec.PageCount, &estimated, &annotationsJSON,
		&definitionsJSON, &configurationJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.PageCountEstimated = estimated != 0
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	}

	if metadataJSON.Valid && metadataJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON.String), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if annotationsJSON.Valid && annotationsJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(annotationsJSON.String), &rec.Annotations); err != nil {
			return nil, fmt.Errorf("unmarshalling annotations: %w", err)
		}
	}
	if definitionsJSON.Valid && definitionsJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(definitionsJSON.String), &rec.Definitions); err != nil {
			return nil, fmt.Errorf("unmarshalling definitions: %w", err)
		}
	}
	if configurationJSON.Valid && configurationJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(configurationJSON.String), &rec.Configuration); err != nil {
			return nil, fmt.Errorf("unmarshalling configuration: %w", err)
		}
	}
	if rec.Configuration == nil {
		rec.Configuration = make(map[string]any)
	}

	return &rec, nil
}

// scanBook scans a single book row.
func scanBook(row *sql.Row) (*domain.BookRecord, error) {
	rec, err := scanBookFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning book: %w", err)
	}
	return rec, nil
}

// scanBookRows scans a book from *sql.Rows.
func scanBookRows(rows *sql.Rows) (*domain.BookRecord, error) {
	rec, err := scanBookFields(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning book: %w", err)
	}
	return rec, nil
}
