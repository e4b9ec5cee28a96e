// ABOUTME: CLI commands for the local snapshot archive.
// ABOUTME: Save, list, restore and delete archived snapshots by ID prefix.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/archive"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:     "archive",
	Aliases: []string{"ar"},
	Short:   "Manage archived snapshots",
	Long: `Snapshots of the journal, schedule, homework and settings kept locally.

'daybook import' archives the current state automatically. Records are
addressed by the 8-character ID prefix shown in 'archive list'.`,
}

var archiveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List archived snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No archived snapshots.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s %s %3d entries %3d classes %3d homework  %s\n",
					faint.Sprint(r.ShortID()),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Entries, r.Schedule, r.Homework,
					r.Label)
			}
			return nil
		})
	},
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Archive the current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := archiveCurrent(strings.Join(args, " "))
		if err != nil {
			return err
		}
		color.Green("✓ Archived %d entries as %s", rec.Entries, rec.ShortID())
		return nil
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace current data with an archived snapshot",
	Long: `Replace the journal, schedule, homework and settings with an archived
snapshot. The current state is archived first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			rec, err := store.Get(args[0])
			if err != nil {
				return err
			}
			snap, err := store.Load(rec.ID.String())
			if err != nil {
				return err
			}

			current, err := db.Export()
			if err != nil {
				return fmt.Errorf("failed to snapshot current data: %w", err)
			}
			backup, err := store.Save(current, "before restore of "+rec.ShortID())
			if err != nil {
				return err
			}

			if err := db.Import(snap); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			if _, err := daybook.RecomputeStats(); err != nil {
				logger.Warn("stats recompute after restore failed", "err", err)
			}

			color.Green("✓ Restored %s (%d entries)", rec.ShortID(), rec.Entries)
			fmt.Printf("  Previous data archived as %s\n", faint.Sprint(backup.ShortID()))
			return nil
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an archived snapshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			rec, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(rec.ID.String()); err != nil {
				return err
			}
			color.Green("✓ Deleted snapshot %s", rec.ShortID())
			return nil
		})
	},
}

// withArchive opens the archive for the duration of fn.
func withArchive(fn func(*archive.Store) error) error {
	store, err := archive.Open(cfg.GetArchiveDir())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("failed to close archive", "err", cerr)
		}
	}()
	return fn(store)
}

// archiveCurrent saves an export of the current store under label.
func archiveCurrent(label string) (*archive.Record, error) {
	var rec *archive.Record
	err := withArchive(func(store *archive.Store) error {
		snap, err := db.Export()
		if err != nil {
			return fmt.Errorf("failed to snapshot current data: %w", err)
		}
		rec, err = store.Save(snap, label)
		return err
	})
	return rec, err
}

func init() {
	archiveCmd.AddCommand(archiveListCmd, archiveSaveCmd, archiveRestoreCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}
