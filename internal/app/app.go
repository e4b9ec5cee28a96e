// ABOUTME: Explicit application handle tying storage, engines, guard and clock together.
// ABOUTME: Presentation layers (CLI, MCP) call through App rather than mutating storage directly.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/daybook/internal/inflight"
	"github.com/harperreed/daybook/internal/insights"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/stats"
	"github.com/harperreed/daybook/internal/storage"
)

var (
	// ErrInFlight is returned when a toggle for the same record is still running.
	ErrInFlight = errors.New("a request for this item is already in progress")
	// ErrQuotaExceeded is returned when the daily assistant allowance is used up.
	ErrQuotaExceeded = errors.New("daily AI request limit reached")
)

// insightWindowDays bounds the history fed to narrative insights.
const insightWindowDays = 30

// App is the handle every call site holds.
type App struct {
	repo    storage.Repository
	stats   *stats.Engine
	guard   *inflight.Guard
	now     func() time.Time
	aiLimit int

	quotaMu sync.Mutex
}

// Option configures an App.
type Option func(*App)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithAILimit overrides the daily assistant limit stored in settings.
// Zero or negative keeps the stored limit.
func WithAILimit(limit int) Option {
	return func(a *App) { a.aiLimit = limit }
}

// New wires an App around repo.
func New(repo storage.Repository, opts ...Option) *App {
	a := &App{
		repo:  repo,
		guard: inflight.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.stats = stats.New(repo, a.now)
	return a
}

// Repo returns the underlying repository for read-only queries.
func (a *App) Repo() storage.Repository {
	return a.repo
}

// Today returns the current calendar day in local time.
func (a *App) Today() string {
	return models.FormatDate(a.now())
}

// Stats returns the cached derived counters.
func (a *App) Stats() (*models.UserStats, error) {
	return a.repo.GetUserStats()
}

// RecomputeStats refreshes both entry and task counters.
func (a *App) RecomputeStats() (*models.UserStats, error) {
	if _, err := a.stats.RecomputeEntryStats(); err != nil {
		return nil, err
	}
	return a.stats.RecomputeTaskStats()
}

// SaveEntry creates an entry and refreshes streaks.
func (a *App) SaveEntry(e *models.JournalEntry) error {
	if err := a.repo.CreateEntry(e); err != nil {
		return err
	}
	return a.recomputeEntries()
}

// UpdateEntry applies patch to an entry.
func (a *App) UpdateEntry(id int64, patch models.EntryPatch) (*models.JournalEntry, error) {
	return a.repo.UpdateEntry(id, patch)
}

// DeleteEntry removes an entry and refreshes streaks.
func (a *App) DeleteEntry(id int64) error {
	if err := a.repo.DeleteEntry(id); err != nil {
		return err
	}
	return a.recomputeEntries()
}

// AddTask creates a task and refreshes task counters.
func (a *App) AddTask(t *models.Task) error {
	if err := a.repo.CreateTask(t); err != nil {
		return err
	}
	return a.recomputeTasks()
}

// DeleteTask removes a task and refreshes task counters.
func (a *App) DeleteTask(id int64) error {
	if err := a.repo.DeleteTask(id); err != nil {
		return err
	}
	return a.recomputeTasks()
}

// ToggleTask flips a task's completion. A second toggle of the same task
// while the first is running returns ErrInFlight and changes nothing.
func (a *App) ToggleTask(id int64) (*models.Task, error) {
	release, ok := a.guard.Acquire(fmt.Sprintf("task:%d", id))
	if !ok {
		logger.Warn("duplicate toggle ignored", "task", id)
		return nil, ErrInFlight
	}
	defer release()

	t, err := a.repo.ToggleTask(id)
	if err != nil {
		return nil, err
	}
	if err := a.recomputeTasks(); err != nil {
		return t, err
	}
	return t, nil
}

// ToggleHomework flips a homework item's completion under the same guard.
func (a *App) ToggleHomework(id int64) (*models.HomeworkItem, error) {
	release, ok := a.guard.Acquire(fmt.Sprintf("homework:%d", id))
	if !ok {
		logger.Warn("duplicate toggle ignored", "homework", id)
		return nil, ErrInFlight
	}
	defer release()

	return a.repo.ToggleHomework(id)
}

// ConsumeAIQuota counts one assistant request against today's allowance.
// The counter resets on a new day; active premium is unlimited.
func (a *App) ConsumeAIQuota() (*models.AIUsage, error) {
	a.quotaMu.Lock()
	defer a.quotaMu.Unlock()

	s, err := a.repo.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	today := a.Today()
	if s.AIUsage.ResetDate != today {
		s.AIUsage.Count = 0
		s.AIUsage.ResetDate = today
	}
	limit := s.AIUsage.Limit
	if a.aiLimit > 0 {
		limit = a.aiLimit
	}

	if !s.PremiumActive(a.now()) && s.AIUsage.Count >= limit {
		logger.Info("ai quota exhausted", "count", s.AIUsage.Count, "limit", limit)
		return &s.AIUsage, ErrQuotaExceeded
	}

	s.AIUsage.Count++
	if err := a.repo.SaveSettings(s); err != nil {
		return nil, fmt.Errorf("save ai usage: %w", err)
	}
	return &s.AIUsage, nil
}

// WeeklySummary summarizes the seven days ending today. A nil summary with a
// nil error means no entries fall in the window; callers show it as a "not
// enough data" placeholder, not a failure.
func (a *App) WeeklySummary() (*insights.WeeklySummary, error) {
	entries, err := a.repo.ListEntries()
	if err != nil {
		return nil, err
	}
	return insights.Weekly(entries, a.Today()), nil
}

// Narrative evaluates the insight rules over the last 30 days.
func (a *App) Narrative() ([]insights.Insight, error) {
	entries, err := a.recentEntries(insightWindowDays)
	if err != nil {
		return nil, err
	}
	return insights.Narrative(entries), nil
}

// TagPatterns analyses tags over the full history.
func (a *App) TagPatterns() ([]insights.TagPattern, error) {
	entries, err := a.repo.ListEntries()
	if err != nil {
		return nil, err
	}
	return insights.TagPatterns(entries), nil
}

// Correlation returns Pearson's r between two fields over the last 30 days.
func (a *App) Correlation(x, y insights.Field) (float64, int, error) {
	entries, err := a.recentEntries(insightWindowDays)
	if err != nil {
		return 0, 0, err
	}
	return insights.Correlation(entries, x, y), len(entries), nil
}

// Forecast predicts tomorrow's mood. It returns nil, nil with fewer than
// seven entries.
func (a *App) Forecast() (*insights.Forecast, error) {
	entries, err := a.repo.ListEntries()
	if err != nil {
		return nil, err
	}
	return insights.MoodForecast(entries), nil
}

// TaskMood relates each day's task completion rate to mood. It returns nil,
// nil with fewer than three days that have both an entry and a task.
func (a *App) TaskMood() (*insights.TaskMood, error) {
	entries, err := a.repo.ListEntries()
	if err != nil {
		return nil, err
	}
	tasks, err := a.repo.ListTasks(models.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return insights.TaskMoodCorrelation(entries, tasks), nil
}

func (a *App) recentEntries(days int) ([]*models.JournalEntry, error) {
	today := a.Today()
	from, err := models.AddDays(today, -(days - 1))
	if err != nil {
		return nil, err
	}
	return a.repo.ListEntriesInRange(from, today)
}

func (a *App) recomputeEntries() error {
	if _, err := a.stats.RecomputeEntryStats(); err != nil {
		logger.Error("entry stats recompute failed", "err", err)
		return fmt.Errorf("recompute entry stats: %w", err)
	}
	return nil
}

func (a *App) recomputeTasks() error {
	if _, err := a.stats.RecomputeTaskStats(); err != nil {
		logger.Error("task stats recompute failed", "err", err)
		return fmt.Errorf("recompute task stats: %w", err)
	}
	return nil
}
