// ABOUTME: CLI commands for the weekly class schedule.
// ABOUTME: Days are numbered Monday=1 through Sunday=7; names are accepted too.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/spf13/cobra"
)

var (
	schedRoom  string
	schedColor string
	schedDay   string
	schedToday bool
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"s", "classes"},
	Short:   "Manage the weekly schedule",
}

var scheduleAddCmd = &cobra.Command{
	Use:     "add <subject> <day> <start> <end>",
	Aliases: []string{"a"},
	Short:   "Add a weekly class",
	Long: `Add a recurring weekly class. Times are HH:MM and end must follow start.

Examples:
  daybook schedule add Biology mon 09:00 10:30 --room B12
  daybook schedule add "Chess club" 7 10:00 11:00 --color "#3366ff"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekday(args[1])
		if err != nil {
			return err
		}

		s := models.NewScheduleItem(args[0], day, args[2], args[3])
		s.Room = schedRoom
		s.Color = schedColor

		if err := db.CreateScheduleItem(s); err != nil {
			return err
		}
		color.Green("✓ Added class")
		printScheduleItem(s)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List classes",
	Long: `List the weekly schedule, or one day of it.

Examples:
  daybook schedule list
  daybook schedule list --day tue
  daybook schedule list --today`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			items []*models.ScheduleItem
			err   error
		)
		switch {
		case schedToday:
			t, perr := models.ParseDate(daybook.Today())
			if perr != nil {
				return perr
			}
			items, err = db.ListScheduleByDay(models.IsoWeekday(t))
		case schedDay != "":
			day, perr := parseWeekday(schedDay)
			if perr != nil {
				return perr
			}
			items, err = db.ListScheduleByDay(day)
		default:
			items, err = db.ListSchedule()
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No classes scheduled.")
			return nil
		}
		for _, s := range items {
			printScheduleItem(s)
		}
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a class",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteScheduleItem(id); err != nil {
			return err
		}
		color.Green("✓ Deleted class %d", id)
		return nil
	},
}

// parseWeekday accepts 1-7 or a day name such as "mon" or "Monday".
func parseWeekday(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	key := strings.ToLower(s)
	if len(key) >= 3 {
		for i, name := range weekdays[1:] {
			if strings.HasPrefix(key, strings.ToLower(name)) {
				return i + 1, nil
			}
		}
	}
	return 0, usageErr("invalid day %q (use 1-7 or mon..sun)", s)
}

func init() {
	scheduleAddCmd.Flags().StringVar(&schedRoom, "room", "", "room or location")
	scheduleAddCmd.Flags().StringVar(&schedColor, "color", "", "display color (#rrggbb)")

	scheduleListCmd.Flags().StringVar(&schedDay, "day", "", "only this day (1-7 or mon..sun)")
	scheduleListCmd.Flags().BoolVar(&schedToday, "today", false, "only today's classes")

	scheduleCmd.AddCommand(scheduleAddCmd, scheduleListCmd, scheduleDeleteCmd)
	rootCmd.AddCommand(scheduleCmd)
}
