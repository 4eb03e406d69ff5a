package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driving/tui"
)

var readCmd = &cobra.Command{
	Use:   "read [book-id]",
	Short: "Open the interactive reader",
	Long: `Open the interactive terminal reader.

Without an argument the reader starts on the library view. With a
book id it opens that book in a new tab straight away.

Controls:
  ←/h, →/l - Turn pages
  b        - Toggle highlight
  tab      - Next tab
  t        - Table of contents
  /        - Search in book
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(_ *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in reader: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if config == nil || config.NewSession == nil {
		return errors.New("session factory not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the reader needs an interactive terminal")
	}
	library, err := libraryService()
	if err != nil {
		return err
	}

	session := config.NewSession()
	defer session.Clear()

	app, err := tui.NewApp(&tui.Ports{
		Session: session,
		Library: library,
		Stats:   config.Stats,
	})
	if err != nil {
		return fmt.Errorf("starting reader: %w", err)
	}
	if len(args) == 1 {
		app.OpenOnStart(args[0])
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	app.AttachProgram(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("reader failed: %w", err)
	}
	return nil
}
