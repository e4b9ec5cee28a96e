// ABOUTME: CLI commands for tasks.
// ABOUTME: Add, list, complete, edit and delete tasks across the four lists.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/spf13/cobra"
)

var (
	taskList     string
	taskWhen     string
	taskDeadline string
	taskNotes    string
	taskArea     string
	taskProject  string
	taskTags     string
	taskTitle    string

	taskShowDone bool
	taskShowAll  bool
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t", "todo"},
	Short:   "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:     "add <title>",
	Aliases: []string{"a"},
	Short:   "Add a task",
	Long: `Add a task. Tasks go to the inbox unless --list is given.

Examples:
  daybook task add "Buy groceries"
  daybook task add Call mum --list today
  daybook task add "File taxes" --deadline 2024-04-15 --area home`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := models.NewTask(strings.Join(args, " "))
		if taskList != "" {
			t.WithList(models.TaskList(taskList))
		}
		if taskWhen != "" {
			t.WithWhen(taskWhen)
		}
		if taskDeadline != "" {
			t.WithDeadline(taskDeadline)
		}
		if taskNotes != "" {
			t.WithNotes(taskNotes)
		}
		t.Area = taskArea
		t.Project = taskProject
		t.Tags = splitTags(taskTags)

		if err := daybook.AddTask(t); err != nil {
			return err
		}

		color.Green("✓ Added task")
		printTask(t)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List tasks",
	Long: `List open tasks, oldest first.

Examples:
  daybook task list
  daybook task list --list today
  daybook task list --done
  daybook task list --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter models.TaskFilter
		if taskList != "" {
			if !models.IsValidTaskList(taskList) {
				return usageErr("unknown list %q (use inbox, today, upcoming or someday)", taskList)
			}
			list := models.TaskList(taskList)
			filter.List = &list
		}
		if !taskShowAll {
			done := taskShowDone
			filter.Completed = &done
		}

		tasks, err := db.ListTasks(filter)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		for _, t := range tasks {
			printTask(t)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"toggle", "x"},
	Short:   "Toggle a task's completion",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		t, err := daybook.ToggleTask(id)
		if t == nil {
			return err
		}
		if t.Completed {
			color.Green("✓ Completed task %d", t.ID)
		} else {
			color.Yellow("↺ Reopened task %d", t.ID)
		}
		printTask(t)
		return err
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a task",
	Long: `Change fields of a task. Only the flags you pass are updated.
Pass an empty --when or --deadline to clear it.

Examples:
  daybook task edit 4 --list today
  daybook task edit 4 --title "Buy milk" --deadline ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var patch models.TaskPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = &taskTitle
		}
		if flags.Changed("list") {
			list := models.TaskList(taskList)
			patch.List = &list
		}
		if flags.Changed("when") {
			if taskWhen == "" {
				patch.ClearWhen = true
			} else {
				patch.When = &taskWhen
			}
		}
		if flags.Changed("deadline") {
			if taskDeadline == "" {
				patch.ClearDeadline = true
			} else {
				patch.Deadline = &taskDeadline
			}
		}
		if flags.Changed("notes") {
			patch.Notes = &taskNotes
		}
		if flags.Changed("area") {
			patch.Area = &taskArea
		}
		if flags.Changed("project") {
			patch.Project = &taskProject
		}
		if flags.Changed("tags") {
			tags := splitTags(taskTags)
			patch.Tags = &tags
		}

		t, err := db.UpdateTask(id, patch)
		if err != nil {
			return err
		}
		color.Green("✓ Updated task")
		printTask(t)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := daybook.DeleteTask(id); err != nil {
			return err
		}
		color.Green("✓ Deleted task %d", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVar(&taskWhen, "when", "", "today, someday or a date (YYYY-MM-DD)")
		c.Flags().StringVar(&taskDeadline, "deadline", "", "due date (YYYY-MM-DD)")
		c.Flags().StringVar(&taskNotes, "notes", "", "task notes")
		c.Flags().StringVar(&taskArea, "area", "", "area of responsibility")
		c.Flags().StringVar(&taskProject, "project", "", "project name")
		c.Flags().StringVar(&taskTags, "tags", "", "comma-separated tags")
	}
	for _, c := range []*cobra.Command{taskAddCmd, taskListCmd, taskEditCmd} {
		c.Flags().StringVarP(&taskList, "list", "l", "", "inbox, today, upcoming or someday")
	}
	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "new title")
	taskListCmd.Flags().BoolVar(&taskShowDone, "done", false, "show completed tasks instead of open ones")
	taskListCmd.Flags().BoolVarP(&taskShowAll, "all", "a", false, "show open and completed tasks")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskEditCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
