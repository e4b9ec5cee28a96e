// ABOUTME: Installs the embedded Claude Code skill for daybook.
// ABOUTME: Writes SKILL.md under ~/.claude/skills/daybook after confirmation.
package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the daybook skill for Claude Code.

This copies the skill definition to ~/.claude/skills/daybook/
so Claude Code can use daybook commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		_, err = installSkill(home, os.Stdin, cmd.OutOrStdout(), skillSkipConfirm)
		return err
	},
}

// installSkill writes the skill under home. It returns false when the user
// declines the prompt.
func installSkill(home string, in io.Reader, out io.Writer, skipConfirm bool) (bool, error) {
	skillDir := filepath.Join(home, ".claude", "skills", "daybook")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	_, _ = fmt.Fprintln(out, "This will install the daybook skill, enabling Claude Code to:")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "  • Log how your day went")
	_, _ = fmt.Fprintln(out, "  • Manage tasks, homework and your class schedule")
	_, _ = fmt.Fprintln(out, "  • Read streaks, trends and mood forecasts")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Destination:\n  %s\n\n", skillPath)

	if _, err := os.Stat(skillPath); err == nil {
		_, _ = fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		_, _ = fmt.Fprintln(out)
	}

	if !skipConfirm {
		_, _ = fmt.Fprint(out, "Install the daybook skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			_, _ = fmt.Fprintln(out, "Installation canceled.")
			return false, nil
		}
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return false, fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return false, fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return false, fmt.Errorf("failed to write skill file: %w", err)
	}

	_, _ = fmt.Fprintln(out, color.GreenString("✓ Installed daybook skill"))
	return true, nil
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}
