// ABOUTME: CLI command for streaks and totals.
// ABOUTME: Reads cached user stats, optionally recomputing them first.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/spf13/cobra"
)

var statsRecompute bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks and totals",
	Long: `Show journal streaks and task totals.

Stats are refreshed whenever entries or tasks change. Use --recompute to
rebuild them from scratch, for example after editing the database by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			st  *models.UserStats
			err error
		)
		if statsRecompute {
			st, err = daybook.RecomputeStats()
		} else {
			st, err = daybook.Stats()
		}
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		_, _ = bold.Println("Journal")
		fmt.Printf("  Entries:        %d\n", st.TotalEntries)
		fmt.Printf("  Current streak: %s\n", streakText(st.CurrentStreak))
		fmt.Printf("  Longest streak: %s\n", streakText(st.LongestStreak))
		if st.LastEntryDate != nil {
			fmt.Printf("  Last entry:     %s\n", *st.LastEntryDate)
		}

		_, _ = bold.Println("Tasks")
		fmt.Printf("  Completed:      %d of %d", st.CompletedTasks, st.TotalTasks)
		if st.TotalTasks > 0 {
			fmt.Printf(" (%.0f%%)", 100*float64(st.CompletedTasks)/float64(st.TotalTasks))
		}
		fmt.Println()
		return nil
	},
}

func streakText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func init() {
	statsCmd.Flags().BoolVar(&statsRecompute, "recompute", false, "rebuild stats from entries and tasks")
	rootCmd.AddCommand(statsCmd)
}
