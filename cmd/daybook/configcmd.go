// ABOUTME: CLI commands for the config file and the AI message log.
// ABOUTME: Shows effective configuration, writes a starter file and manages logged messages.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configForce   bool
	messagesLimit int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("config file:     %s\n", cfg.Path())
		fmt.Printf("data_dir:        %s\n", cfg.GetDataDir())
		fmt.Printf("archive_dir:     %s\n", cfg.GetArchiveDir())
		fmt.Printf("debug:           %t\n", cfg.Debug)
		limit := "from settings"
		if cfg.AIDailyLimit > 0 {
			limit = fmt.Sprint(cfg.AIDailyLimit)
		}
		fmt.Printf("ai_daily_limit:  %s\n", limit)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Path()
		if _, err := os.Stat(path); err == nil && !configForce {
			return usageErr("%s already exists (use --force to overwrite)", path)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("✓ Wrote %s", path)
		return nil
	},
}

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"log"},
	Short:   "Show the AI message log",
	Long: `Show the most recent requests and replies exchanged over MCP.

Examples:
  daybook messages
  daybook messages -n 50
  daybook messages clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := db.ListMessages(messagesLimit)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Println("No messages.")
			return nil
		}
		for _, m := range msgs {
			role := color.CyanString("%-9s", m.Role)
			fmt.Printf("%s %s %s\n", faint.Sprint(m.CreatedAt.Local().Format("2006-01-02 15:04")), role, truncate(m.Content, 100))
		}
		return nil
	},
}

var messagesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every logged message",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.ClearMessages(); err != nil {
			return err
		}
		color.Green("✓ Cleared message log")
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	messagesCmd.Flags().IntVarP(&messagesLimit, "limit", "n", 20, "number of messages (0 for all)")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	messagesCmd.AddCommand(messagesClearCmd)
	rootCmd.AddCommand(configCmd, messagesCmd)
}
