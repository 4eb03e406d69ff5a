package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc, err := statsService()
	if err != nil {
		return err
	}

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(stats.Sessions) == 0 {
		cmd.Println("No reading activity recorded yet.")
		return nil
	}

	cmd.Printf("Total reading time: %dm\n", stats.TotalMinutes)
	cmd.Printf("Current streak:     %d day(s)\n", stats.CurrentStreak)
	cmd.Printf("Last read:          %s\n", stats.LastReadDate)
	cmd.Println()
	cmd.Println("Recent sessions:")
	sessions := stats.Sessions
	if len(sessions) > 10 {
		sessions = sessions[len(sessions)-10:]
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		cmd.Printf("  %s  %s  %dm, %d page(s)\n", s.Date, s.BookID, s.Duration, s.PagesRead)
	}
	return nil
}
