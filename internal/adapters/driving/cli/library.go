package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zolangui/Lumen-Read/internal/adapters/driven/library"
	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

var libraryJSON bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the book collection",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in the library",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryAddCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Import book files into the library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLibraryAdd,
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm [book-id]",
	Short: "Remove a book from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRm,
}

var libraryWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and import books dropped into it",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryWatch,
}

func init() {
	libraryListCmd.Flags().BoolVar(&libraryJSON, "json", false, "output books as JSON")
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRmCmd)
	libraryCmd.AddCommand(libraryWatchCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryList(cmd *cobra.Command, _ []string) error {
	svc, err := libraryService()
	if err != nil {
		return err
	}

	books, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}

	if libraryJSON {
		data, err := json.MarshalIndent(books, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal books: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(books) == 0 {
		cmd.Println("Library is empty.")
		return nil
	}

	for i := range books {
		title := books[i].Name
		if books[i].Metadata != nil && books[i].Metadata.Title != "" {
			title = books[i].Metadata.Title
		}
		cmd.Printf("  %s  %s (%.0f%%)\n", books[i].ID, title, books[i].Percentage*100)
	}
	return nil
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	svc, err := libraryService()
	if err != nil {
		return err
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		record, err := svc.Import(cmd.Context(), filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		cmd.Printf("Imported %s as %s\n", record.Name, record.ID)
	}
	return nil
}

func runLibraryRm(cmd *cobra.Command, args []string) error {
	svc, err := libraryService()
	if err != nil {
		return err
	}

	if err := svc.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no book with id %s", args[0])
		}
		return fmt.Errorf("removing %s: %w", args[0], err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runLibraryWatch(cmd *cobra.Command, args []string) error {
	svc, err := libraryService()
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s, press Ctrl+C to stop\n", args[0])
	watcher := library.NewWatcher(args[0], svc)
	if err := watcher.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("watching %s: %w", args[0], err)
	}
	return nil
}
