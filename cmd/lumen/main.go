// Command lumen is a terminal ebook reader.
package main

import (
	"fmt"
	"os"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/config/file"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/engine/epub"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/storage/sqlite"
	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/cli"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger.SetOutput(os.Stderr)

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening library store: %w", err)
	}
	defer store.Close()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	engine := epub.NewEngine()
	books := store.BookStore()
	files := store.FileStore()
	stats := services.NewStatsTracker(store.StatsStore())
	estimator := services.NewEstimator(configStore.PaginationConfig())
	searchCfg := configStore.SearchConfig()

	cli.SetConfig(&cli.Config{
		Library: services.NewLibrary(books, files, engine),
		Stats:   stats,
		NewSession: func() *services.Session {
			return services.NewSession(books, files, engine,
				services.WithEstimator(estimator),
				services.WithSearchConfig(searchCfg),
				services.WithStatsTracker(stats),
			)
		},
	})

	return cli.Execute()
}
