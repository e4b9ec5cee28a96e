// ABOUTME: CLI commands for exporting and importing daybook data.
// ABOUTME: Supports JSON, YAML and Markdown export; imports archive the current state first.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string

	importFormat    string
	importNoArchive bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export daybook data",
	Long: `Export daybook data in various formats.

FORMATS:

  json       Full snapshot (journal, schedule, homework, settings)
  yaml       The same snapshot as YAML
  markdown   Journal table (for sharing)

Tasks and the AI message log are not part of snapshots.

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include entries since this date (markdown only)

EXAMPLES:

  daybook export json -o backup.json
  daybook export yaml
  daybook export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = db.ExportJSON()
		case "yaml":
			data, err = db.ExportYAML()
		case "markdown":
			if exportSince != "" {
				if _, err := parseDateArg(exportSince); err != nil {
					return err
				}
			}
			var md string
			md, err = db.ExportMarkdown(exportSince)
			data = []byte(md)
		default:
			return usageErr("unknown format %q (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace journal, schedule, homework and settings from a snapshot",
	Long: `Import a snapshot written by 'daybook export json' or 'export yaml'.

The journal, schedule and homework are replaced wholesale; tasks and the AI
message log are left alone. The snapshot is checked before anything changes,
and the current state is saved to the archive first, so an import can be
undone with 'daybook archive restore <id>'.

EXAMPLES:

  daybook import backup.json
  daybook import backup.yml
  daybook import dump.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		format := importFormat
		if format == "" {
			format = formatFromExt(filename)
		}
		if format != "json" && format != "yaml" {
			return usageErr("unknown format %q (use json or yaml)", format)
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if !importNoArchive {
			rec, err := archiveCurrent("before import of " + filepath.Base(filename))
			if err != nil {
				return err
			}
			fmt.Printf("  Current data archived as %s\n", faint.Sprint(rec.ShortID()))
		}

		if format == "yaml" {
			err = db.ImportYAML(data)
		} else {
			err = db.ImportJSON(data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		if _, err := daybook.RecomputeStats(); err != nil {
			logger.Warn("stats recompute after import failed", "err", err)
		}
		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func formatFromExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include entries since date (YYYY-MM-DD)")

	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default from file extension)")
	importCmd.Flags().BoolVar(&importNoArchive, "no-archive", false, "skip archiving the current state")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
