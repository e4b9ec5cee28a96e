// ABOUTME: Calendar-day helpers shared by entities and engines.
// ABOUTME: Dates are ISO YYYY-MM-DD strings; times are HH:MM strings.
package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the layout of every calendar-day field.
	DateLayout = "2006-01-02"
	// ClockLayout is the layout of schedule start/end times.
	ClockLayout = "15:04"
)

// FormatDate returns the calendar day of t in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// AddDays shifts a calendar day by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// IsoWeekday returns the day of week with Monday=1 ... Sunday=7.
func IsoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
