// ABOUTME: CLI command reporting the database schema version.
// ABOUTME: Lists every applied migration with its timestamp.
package main

import (
	"fmt"

	"github.com/harperreed/daybook/internal/storage"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the database schema version",
	Long: `Show the schema version of the database and the migrations applied to it.

Migrations run automatically whenever the database is opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := db.SchemaVersion()
		if err != nil {
			return err
		}
		applied, err := db.AppliedMigrations()
		if err != nil {
			return err
		}

		latest := storage.Migrations[len(storage.Migrations)-1].Version
		fmt.Printf("Database: %s\n", db.Path())
		fmt.Printf("Version:  %d (latest %d)\n", version, latest)
		for _, m := range applied {
			fmt.Printf("  %s v%d %s\n", faint.Sprint(m.AppliedAt), m.Version, m.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
