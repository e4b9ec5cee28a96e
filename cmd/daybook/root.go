// ABOUTME: Root Cobra command for the daybook CLI.
// ABOUTME: Loads config, starts logging and opens the store via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/daybook/internal/app"
	"github.com/harperreed/daybook/internal/config"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/storage"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	db      *storage.DB
	daybook *app.App
)

var rootCmd = &cobra.Command{
	Use:     "daybook",
	Short:   "Personal journal, tasks and study planner",
	Version: version,
	Long: `Daybook is a local-first CLI for logging how your days go and keeping
track of what needs doing.

WHAT IT TRACKS:

  Journal    one entry per day: mood (1-10), energy (0-100), sleep, tags, note
  Tasks      inbox, today, upcoming and someday lists
  Homework   assignments with due dates and priorities
  Schedule   weekly recurring classes (Monday=1 ... Sunday=7)

QUICK START:

  $ daybook entry add 7 --tags exercised,outdoors   # Log today
  $ daybook task add "Buy groceries" --list today   # Add a task
  $ daybook homework add Math 2024-03-12            # Add homework
  $ daybook stats                                   # Streaks and totals
  $ daybook insights                                # What the data says

BACKUPS:

  $ daybook export json -o backup.json   # Portable snapshot
  $ daybook import backup.json           # Replace data (current state is archived first)
  $ daybook archive list                 # Snapshots kept locally

MCP INTEGRATION:

  Run 'daybook mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/daybook/daybook.db unless
  data_dir is set in ~/.config/daybook/config.yaml or DAYBOOK_DATA_DIR.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "install-skill" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: config.ConfigDir()}); err != nil {
			return fmt.Errorf("failed to start logging: %w", err)
		}

		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		daybook = app.New(db, app.WithAILimit(cfg.AIDailyLimit))
		logger.Debug("command started", "cmd", cmd.CommandPath(), "db", db.Path())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Close()
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/daybook/config.yaml)")
}
