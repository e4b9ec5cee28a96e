// ABOUTME: Shared CLI helpers for parsing arguments and printing results.
// ABOUTME: Also maps validation and store failures to user-facing messages.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/app"
	"github.com/harperreed/daybook/internal/archive"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
	"github.com/harperreed/daybook/internal/validate"
)

// reportError prints each validation message, or a retry notice for store failures.
func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed)

	if msgs := validate.Messages(err); len(msgs) > 0 {
		_, _ = red.Fprintln(w, "✗ Please fix the following:")
		for _, m := range msgs {
			_, _ = fmt.Fprintf(w, "  • %s\n", m)
		}
		return
	}

	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrAlreadyExists),
		errors.Is(err, archive.ErrNotFound),
		errors.Is(err, archive.ErrAmbiguous),
		errors.Is(err, app.ErrInFlight),
		errors.Is(err, app.ErrQuotaExceeded),
		errors.Is(err, errUsage):
		_, _ = red.Fprintf(w, "✗ %v\n", err)
	default:
		_, _ = red.Fprintln(w, "✗ Something went wrong. Please try again.")
		_, _ = fmt.Fprintf(w, "  %v\n", err)
	}
}

// errUsage marks bad command-line input.
var errUsage = errors.New("invalid argument")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErr("invalid id %q", s)
	}
	return id, nil
}

func parseInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageErr("invalid %s %q", what, s)
	}
	return n, nil
}

func parseDateArg(s string) (string, error) {
	if _, err := models.ParseDate(s); err != nil {
		return "", usageErr("%v", err)
	}
	return s, nil
}

// splitTags parses a comma-separated tag list.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

var faint = color.New(color.Faint)

func checkbox(done bool) string {
	if done {
		return color.GreenString("[x]")
	}
	return "[ ]"
}

func printEntry(e *models.JournalEntry) {
	tags := ""
	if len(e.Tags) > 0 {
		tags = faint.Sprintf(" #%s", strings.Join(e.Tags, " #"))
	}
	note := ""
	if e.Note != "" {
		note = faint.Sprintf(" (%s)", truncate(e.Note, 40))
	}
	fmt.Printf("%s %s mood %2d/10  energy %3d  sleep %4.1fh q%d%s%s\n",
		faint.Sprintf("%4d", e.ID),
		e.Date,
		e.Mood, e.Energy, e.SleepHours, e.SleepQuality,
		tags, note)
}

func printTask(t *models.Task) {
	extra := ""
	if t.Deadline != nil {
		extra += faint.Sprintf(" due %s", *t.Deadline)
	}
	if t.When != nil {
		extra += faint.Sprintf(" when %s", *t.When)
	}
	if t.Project != "" {
		extra += faint.Sprintf(" [%s]", t.Project)
	}
	fmt.Printf("%s %s %s %s%s\n",
		faint.Sprintf("%4d", t.ID),
		checkbox(t.Completed),
		padRight(string(t.List), 9),
		t.Title,
		extra)
}

func printHomework(h *models.HomeworkItem) {
	prio := string(h.Priority)
	switch h.Priority {
	case models.PriorityHigh:
		prio = color.RedString("%-6s", prio)
	case models.PriorityLow:
		prio = faint.Sprintf("%-6s", prio)
	default:
		prio = padRight(prio, 6)
	}
	desc := ""
	if h.Description != "" {
		desc = faint.Sprintf(" (%s)", truncate(h.Description, 40))
	}
	fmt.Printf("%s %s %s %s %s%s\n",
		faint.Sprintf("%4d", h.ID),
		checkbox(h.Completed),
		h.DueDate,
		prio,
		h.Subject,
		desc)
}

var weekdays = []string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func printScheduleItem(s *models.ScheduleItem) {
	room := ""
	if s.Room != "" {
		room = faint.Sprintf(" @ %s", s.Room)
	}
	fmt.Printf("%s %s %s-%s %s%s\n",
		faint.Sprintf("%4d", s.ID),
		weekdays[s.DayOfWeek],
		s.StartTime, s.EndTime,
		s.Subject,
		room)
}
