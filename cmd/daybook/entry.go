// ABOUTME: CLI commands for journal entries.
// ABOUTME: Add, list, show, edit and delete the one-per-day mood log.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
	"github.com/spf13/cobra"
)

var (
	entryDate    string
	entryMood    int
	entryEnergy  int
	entrySleep   float64
	entryQuality int
	entryTags    string
	entryNote    string

	entryFrom  string
	entryTo    string
	entryLimit int
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"e", "journal"},
	Short:   "Manage journal entries",
}

var entryAddCmd = &cobra.Command{
	Use:     "add <mood>",
	Aliases: []string{"a"},
	Short:   "Log a day",
	Long: `Log a day's mood (1-10). There is at most one entry per date.

Examples:
  daybook entry add 7
  daybook entry add 5 --date 2024-03-09 --sleep 6.5 --quality 2
  daybook entry add 8 --energy 80 --tags exercised,outdoors --note "Long walk"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, err := parseInt(args[0], "mood")
		if err != nil {
			return err
		}

		date := entryDate
		if date == "" {
			date = daybook.Today()
		}

		e := models.NewJournalEntry(date, mood)
		if cmd.Flags().Changed("energy") {
			e.WithEnergy(entryEnergy)
		}
		if cmd.Flags().Changed("sleep") || cmd.Flags().Changed("quality") {
			hours, quality := e.SleepHours, e.SleepQuality
			if cmd.Flags().Changed("sleep") {
				hours = entrySleep
			}
			if cmd.Flags().Changed("quality") {
				quality = entryQuality
			}
			e.WithSleep(hours, quality)
		}
		e.WithTags(splitTags(entryTags)...)
		if entryNote != "" {
			e.WithNote(entryNote)
		}

		if err := daybook.SaveEntry(e); err != nil {
			return err
		}

		color.Green("✓ Logged %s", e.Date)
		printEntry(e)
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List journal entries",
	Long: `List journal entries, newest first.

With --from/--to, list the inclusive date range oldest first instead.

Examples:
  daybook entry list
  daybook entry list -n 30
  daybook entry list --from 2024-03-01 --to 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []*models.JournalEntry
		var err error

		if entryFrom != "" || entryTo != "" {
			to := entryTo
			if to == "" {
				to = daybook.Today()
			}
			from := entryFrom
			if from == "" {
				from = to
			}
			entries, err = db.ListEntriesInRange(from, to)
		} else {
			entries, err = db.ListEntries()
			if err == nil && entryLimit > 0 && len(entries) > entryLimit {
				entries = entries[:entryLimit]
			}
		}
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}
		for _, e := range entries {
			printEntry(e)
		}
		return nil
	},
}

var entryShowCmd = &cobra.Command{
	Use:   "show <date|id>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := lookupEntry(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(e.Date), faint.Sprintf("#%d", e.ID))
		fmt.Printf("  Mood:    %d/10\n", e.Mood)
		fmt.Printf("  Energy:  %d\n", e.Energy)
		fmt.Printf("  Sleep:   %.1fh (quality %d/5)\n", e.SleepHours, e.SleepQuality)
		if len(e.Tags) > 0 {
			fmt.Printf("  Tags:    %v\n", e.Tags)
		}
		if e.Note != "" {
			fmt.Printf("  Note:    %s\n", e.Note)
		}
		fmt.Printf("  Updated: %s\n", faint.Sprint(e.UpdatedAt.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <date|id>",
	Short: "Change fields of an entry",
	Long: `Change fields of an entry. Only the flags you pass are updated.

Examples:
  daybook entry edit 2024-03-09 --mood 6
  daybook entry edit 12 --tags stressed --note "Exam week"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := lookupEntry(args[0])
		if err != nil {
			return err
		}

		var patch models.EntryPatch
		flags := cmd.Flags()
		if flags.Changed("mood") {
			patch.Mood = &entryMood
		}
		if flags.Changed("energy") {
			patch.Energy = &entryEnergy
		}
		if flags.Changed("sleep") {
			patch.SleepHours = &entrySleep
		}
		if flags.Changed("quality") {
			patch.SleepQuality = &entryQuality
		}
		if flags.Changed("tags") {
			tags := splitTags(entryTags)
			patch.Tags = &tags
		}
		if flags.Changed("note") {
			patch.Note = &entryNote
		}

		updated, err := daybook.UpdateEntry(e.ID, patch)
		if err != nil {
			return err
		}

		color.Green("✓ Updated %s", updated.Date)
		printEntry(updated)
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <date|id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := lookupEntry(args[0])
		if err != nil {
			return err
		}
		if err := daybook.DeleteEntry(e.ID); err != nil {
			return err
		}
		color.Green("✓ Deleted entry for %s", e.Date)
		return nil
	},
}

// lookupEntry accepts either a YYYY-MM-DD date or a numeric id.
func lookupEntry(arg string) (*models.JournalEntry, error) {
	if _, err := models.ParseDate(arg); err == nil {
		e, err := db.GetEntryByDate(arg)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("no entry for %s: %w", arg, storage.ErrNotFound)
		}
		return e, err
	}
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return db.GetEntry(id)
}

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryEditCmd} {
		c.Flags().IntVar(&entryEnergy, "energy", 50, "energy level (0-100)")
		c.Flags().Float64Var(&entrySleep, "sleep", 7, "hours slept")
		c.Flags().IntVar(&entryQuality, "quality", 3, "sleep quality (1-5)")
		c.Flags().StringVar(&entryTags, "tags", "", "comma-separated tags")
		c.Flags().StringVar(&entryNote, "note", "", "free-form note")
	}
	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "day to log (YYYY-MM-DD, default today)")
	entryEditCmd.Flags().IntVar(&entryMood, "mood", 5, "mood (1-10)")

	entryListCmd.Flags().StringVar(&entryFrom, "from", "", "first day (YYYY-MM-DD)")
	entryListCmd.Flags().StringVar(&entryTo, "to", "", "last day (YYYY-MM-DD, default today)")
	entryListCmd.Flags().IntVarP(&entryLimit, "limit", "n", 14, "max entries without a range")

	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryShowCmd, entryEditCmd, entryDeleteCmd)
	rootCmd.AddCommand(entryCmd)
}
