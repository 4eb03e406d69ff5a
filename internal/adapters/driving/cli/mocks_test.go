package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// mockLibraryService is a test double for the library driving port.
type mockLibraryService struct {
	books     []domain.BookRecord
	listErr   error
	imports   []string
	deleted   []string
	deleteErr error
}

func (m *mockLibraryService) Import(_ context.Context, name string, _ []byte) (*domain.BookRecord, error) {
	m.imports = append(m.imports, name)
	return &domain.BookRecord{ID: "id-" + name, Name: name}, nil
}

func (m *mockLibraryService) List(context.Context) ([]domain.BookRecord, error) {
	return m.books, m.listErr
}

func (m *mockLibraryService) Get(_ context.Context, id string) (*domain.BookRecord, error) {
	for i := range m.books {
		if m.books[i].ID == id {
			return &m.books[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLibraryService) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockStatsService is a test double for the stats driving port.
type mockStatsService struct {
	stats    *domain.ReadingStats
	statsErr error
}

func (m *mockStatsService) StartSession(string, float64) {}
func (m *mockStatsService) OnProgress(string, float64)   {}
func (m *mockStatsService) EndSession(context.Context) error {
	return nil
}

func (m *mockStatsService) Stats(context.Context) (*domain.ReadingStats, error) {
	return m.stats, m.statsErr
}

// execute runs the root command against a temporary configuration and
// returns the captured output.
func execute(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()
	original := config
	SetConfig(cfg)
	t.Cleanup(func() { SetConfig(original) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
