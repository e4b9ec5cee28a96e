// ABOUTME: Statistics engine deriving streaks and task totals into the UserStats cache.
// ABOUTME: Every recompute is a pure function of the store's current contents.
package stats

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/models"
)

// Store is the slice of the repository the engine reads and writes.
type Store interface {
	ListEntries() ([]*models.JournalEntry, error)
	CountTasks() (models.TaskStats, error)
	GetUserStats() (*models.UserStats, error)
	SaveUserStats(s *models.UserStats) error
}

// Engine recomputes the UserStats singleton.
type Engine struct {
	store Store
	now   func() time.Time

	// Recomputes read-modify-write one row.
	mu sync.Mutex
}

// New returns an engine reading "today" from now.
func New(store Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// RecomputeEntryStats refreshes total entries, streaks and the last entry date.
// LongestStreak never decreases.
func (e *Engine) RecomputeEntryStats() (*models.UserStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.ListEntries()
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	current, err := e.store.GetUserStats()
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, en := range entries {
		dates = append(dates, en.Date)
	}
	streak := ComputeStreaks(dates, models.FormatDate(e.now()), current.LongestStreak)

	current.TotalEntries = len(entries)
	current.CurrentStreak = streak.Current
	current.LongestStreak = streak.Longest
	current.LastEntryDate = streak.LastDate

	if err := e.store.SaveUserStats(current); err != nil {
		return nil, fmt.Errorf("save user stats: %w", err)
	}
	logger.Debug("entry stats recomputed",
		"entries", current.TotalEntries,
		"current_streak", current.CurrentStreak,
		"longest_streak", current.LongestStreak)
	return current, nil
}

// RecomputeTaskStats refreshes total and completed task counts.
func (e *Engine) RecomputeTaskStats() (*models.UserStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts, err := e.store.CountTasks()
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	current, err := e.store.GetUserStats()
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}

	current.TotalTasks = counts.Total
	current.CompletedTasks = counts.Completed

	if err := e.store.SaveUserStats(current); err != nil {
		return nil, fmt.Errorf("save user stats: %w", err)
	}
	logger.Debug("task stats recomputed", "total", counts.Total, "completed", counts.Completed)
	return current, nil
}

// Streaks is the result of ComputeStreaks.
type Streaks struct {
	Current  int
	Longest  int
	LastDate *string
}

// ComputeStreaks walks dates backwards from today. The current streak counts
// consecutive days ending today and is 0 when today has no entry; entries
// dated after today are ignored for it. Longest is the longest run of
// consecutive days anywhere in dates, merged with prevLongest so it never
// decreases. Malformed dates are skipped.
func ComputeStreaks(dates []string, today string, prevLongest int) Streaks {
	days := uniqueDays(dates)
	out := Streaks{Longest: prevLongest}
	if len(days) == 0 {
		return out
	}

	last := models.FormatDate(days[0])
	out.LastDate = &last

	todayT, err := models.ParseDate(today)
	if err == nil {
		expected := todayT
		for _, d := range days {
			if d.After(todayT) {
				continue
			}
			if !d.Equal(expected) {
				break
			}
			out.Current++
			expected = expected.AddDate(0, 0, -1)
		}
	}

	run := 1
	longest := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if longest > out.Longest {
		out.Longest = longest
	}
	return out
}

// uniqueDays parses, dedupes and sorts dates newest first.
func uniqueDays(dates []string) []time.Time {
	seen := make(map[string]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		if seen[s] {
			continue
		}
		t, err := models.ParseDate(s)
		if err != nil {
			continue
		}
		seen[s] = true
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
