// ABOUTME: UserStats singleton, a cache of values derived from entries and tasks.
// ABOUTME: Only the statistics engine writes it.
package models

import "time"

// UserStats holds derived counters.
type UserStats struct {
	TotalEntries   int       `json:"totalEntries" yaml:"totalEntries"`
	CurrentStreak  int       `json:"currentStreak" yaml:"currentStreak"`
	LongestStreak  int       `json:"longestStreak" yaml:"longestStreak"`
	LastEntryDate  *string   `json:"lastEntryDate" yaml:"lastEntryDate"`
	TotalTasks     int       `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks int       `json:"completedTasks" yaml:"completedTasks"`
	UpdatedAt      time.Time `json:"updatedAt" yaml:"updatedAt"`
}
