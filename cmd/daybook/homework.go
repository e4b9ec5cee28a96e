// ABOUTME: CLI commands for homework assignments.
// ABOUTME: Add, list by due date, complete and delete assignments.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/spf13/cobra"
)

var (
	hwPriority    string
	hwDescription string
	hwAll         bool
	hwDueBy       string
)

var homeworkCmd = &cobra.Command{
	Use:     "homework",
	Aliases: []string{"hw"},
	Short:   "Manage homework",
}

var homeworkAddCmd = &cobra.Command{
	Use:     "add <subject> <due-date>",
	Aliases: []string{"a"},
	Short:   "Add an assignment",
	Long: `Add a homework assignment due on a date (YYYY-MM-DD).

Examples:
  daybook homework add Math 2024-03-12
  daybook hw add History 2024-03-20 --priority high --desc "Essay on the 1848 revolutions"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := parseDateArg(args[1])
		if err != nil {
			return err
		}

		h := models.NewHomeworkItem(args[0], due)
		if hwPriority != "" {
			h.WithPriority(models.Priority(hwPriority))
		}
		if hwDescription != "" {
			h.WithDescription(hwDescription)
		}

		if err := db.CreateHomework(h); err != nil {
			return err
		}

		color.Green("✓ Added homework")
		printHomework(h)
		return nil
	},
}

var homeworkListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List homework by due date",
	Long: `List unfinished homework ordered by due date.

Examples:
  daybook homework list
  daybook homework list --all
  daybook homework list --due-by 2024-03-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			items []*models.HomeworkItem
			err   error
		)
		switch {
		case hwDueBy != "":
			items, err = db.ListHomeworkDueBy(hwDueBy)
		case hwAll:
			items, err = db.ListHomework()
		default:
			items, err = db.ListActiveHomework()
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No homework found.")
			return nil
		}
		today := daybook.Today()
		for _, h := range items {
			if !h.Completed && h.DueDate < today {
				fmt.Print(color.RedString("! "))
			} else {
				fmt.Print("  ")
			}
			printHomework(h)
		}
		return nil
	},
}

var homeworkDoneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"toggle", "x"},
	Short:   "Toggle an assignment's completion",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		h, err := daybook.ToggleHomework(id)
		if err != nil {
			return err
		}
		if h.Completed {
			color.Green("✓ Finished %s", h.Subject)
		} else {
			color.Yellow("↺ Reopened %s", h.Subject)
		}
		return nil
	},
}

var homeworkDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an assignment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteHomework(id); err != nil {
			return err
		}
		color.Green("✓ Deleted homework %d", id)
		return nil
	},
}

func init() {
	homeworkAddCmd.Flags().StringVarP(&hwPriority, "priority", "p", "", "low, medium or high (default medium)")
	homeworkAddCmd.Flags().StringVar(&hwDescription, "desc", "", "what needs doing")

	homeworkListCmd.Flags().BoolVarP(&hwAll, "all", "a", false, "include finished assignments")
	homeworkListCmd.Flags().StringVar(&hwDueBy, "due-by", "", "only unfinished work due on or before this day")

	homeworkCmd.AddCommand(homeworkAddCmd, homeworkListCmd, homeworkDoneCmd, homeworkDeleteCmd)
	rootCmd.AddCommand(homeworkCmd)
}
