// Package cli provides the command line interface for lumen.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Zolangui/Lumen-Read/internal/core/ports/driving"
	"github.com/Zolangui/Lumen-Read/internal/core/services"
	"github.com/Zolangui/Lumen-Read/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Config holds the services the commands run against.
type Config struct {
	// Library manages the book collection.
	Library driving.LibraryService

	// Stats aggregates reading activity.
	Stats driving.StatsService

	// NewSession creates a fresh reading session for the TUI.
	NewSession func() *services.Session
}

// config holds the current command configuration.
var config *Config

// SetConfig sets the configuration for all commands.
func SetConfig(c *Config) {
	config = c
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "A terminal ebook reader",
	Long: `Lumen is a terminal ebook reader with a multi-pane reading session.

Import books into the library, then open them in the interactive
reader with tabs, split panes, search and annotations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func libraryService() (driving.LibraryService, error) {
	if config == nil || config.Library == nil {
		return nil, errors.New("library service not configured")
	}
	return config.Library, nil
}

func statsService() (driving.StatsService, error) {
	if config == nil || config.Stats == nil {
		return nil, errors.New("stats service not configured")
	}
	return config.Stats, nil
}
