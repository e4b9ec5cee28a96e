// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Every tool call counts against the
daily AI limit ('daybook settings show') and is kept in the message log.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "daybook": {
        "command": "daybook",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_entry       Record a day's mood, energy, sleep and tags
  list_entries    List journal entries
  add_task        Create a task
  list_tasks      List tasks
  toggle_task     Complete or reopen a task
  add_homework    Record an assignment
  list_homework   List assignments by due date
  get_stats       Streaks and totals
  weekly_summary  Last 7 days at a glance
  get_insights    Narrative observations and tag patterns
  mood_forecast   Tomorrow's predicted mood

AVAILABLE RESOURCES:

  daybook://today     Today's entry, classes, tasks and homework
  daybook://summary   Stats, weekly summary, forecast and AI usage`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(daybook)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		logger.Info("mcp server starting", "version", mcp.Version)
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
