// ABOUTME: Tests for streak computation and the stats engine.
// ABOUTME: Uses an in-memory store and a fixed clock.
package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/daybook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	entries []*models.JournalEntry
	tasks   models.TaskStats
	stats   models.UserStats
	saves   int
	listErr error
}

func (m *memStore) ListEntries() ([]*models.JournalEntry, error) {
	return m.entries, m.listErr
}

func (m *memStore) CountTasks() (models.TaskStats, error) {
	return m.tasks, nil
}

func (m *memStore) GetUserStats() (*models.UserStats, error) {
	s := m.stats
	return &s, nil
}

func (m *memStore) SaveUserStats(s *models.UserStats) error {
	m.stats = *s
	m.saves++
	return nil
}

func (m *memStore) add(dates ...string) {
	for _, d := range dates {
		m.entries = append(m.entries, models.NewJournalEntry(d, 5))
	}
}

func fixedClock(date string) func() time.Time {
	t, _ := time.Parse(models.DateLayout, date)
	return func() time.Time { return t.Add(15 * time.Hour) }
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		prevLongest int
		wantCurrent int
		wantLongest int
	}{
		{"empty keeps longest", nil, 4, 0, 4},
		{"single entry today", []string{"2024-03-10"}, 0, 1, 1},
		{"three consecutive ending today", []string{"2024-03-08", "2024-03-10", "2024-03-09"}, 0, 3, 3},
		{"most recent is yesterday", []string{"2024-03-09", "2024-03-08"}, 0, 0, 2},
		{"gap breaks the walk", []string{"2024-03-10", "2024-03-09", "2024-03-07", "2024-03-06", "2024-03-05"}, 0, 2, 3},
		{"future entry ignored for current", []string{"2024-03-12", "2024-03-10", "2024-03-09"}, 0, 2, 2},
		{"longest merged with previous", []string{"2024-03-10"}, 9, 1, 9},
		{"duplicate dates count once", []string{"2024-03-10", "2024-03-10", "2024-03-09"}, 0, 2, 2},
		{"month boundary", []string{"2024-03-01", "2024-02-29", "2024-02-28"}, 0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreaks(tt.dates, "2024-03-10", tt.prevLongest)
			assert.Equal(t, tt.wantCurrent, got.Current, "current")
			assert.Equal(t, tt.wantLongest, got.Longest, "longest")
		})
	}
}

func TestComputeStreaksLastDate(t *testing.T) {
	got := ComputeStreaks([]string{"2024-03-01", "2024-03-05", "not-a-date"}, "2024-03-10", 0)
	require.NotNil(t, got.LastDate)
	assert.Equal(t, "2024-03-05", *got.LastDate)

	empty := ComputeStreaks(nil, "2024-03-10", 0)
	assert.Nil(t, empty.LastDate)
}

func TestRecomputeEntryStats(t *testing.T) {
	store := &memStore{}
	store.add("2024-03-08", "2024-03-09", "2024-03-10")
	engine := New(store, fixedClock("2024-03-10"))

	got, err := engine.RecomputeEntryStats()
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalEntries)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	require.NotNil(t, got.LastEntryDate)
	assert.Equal(t, "2024-03-10", *got.LastEntryDate)
	assert.Equal(t, 1, store.saves)
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	store := &memStore{}
	engine := New(store, fixedClock("2024-03-10"))

	store.add("2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04")
	first, err := engine.RecomputeEntryStats()
	require.NoError(t, err)
	assert.Equal(t, 4, first.LongestStreak)
	assert.Equal(t, 0, first.CurrentStreak)

	// Deleting history must not shrink the recorded longest streak.
	store.entries = store.entries[:1]
	store.add("2024-03-10")
	second, err := engine.RecomputeEntryStats()
	require.NoError(t, err)
	assert.Equal(t, 4, second.LongestStreak)
	assert.Equal(t, 1, second.CurrentStreak)

	store.entries = nil
	third, err := engine.RecomputeEntryStats()
	require.NoError(t, err)
	assert.Equal(t, 0, third.CurrentStreak)
	assert.Equal(t, 4, third.LongestStreak)
	assert.Equal(t, 0, third.TotalEntries)
}

func TestRecomputeTaskStatsKeepsEntryStats(t *testing.T) {
	store := &memStore{tasks: models.TaskStats{Total: 5, Completed: 2}}
	store.stats.CurrentStreak = 3
	engine := New(store, fixedClock("2024-03-10"))

	got, err := engine.RecomputeTaskStats()
	require.NoError(t, err)

	assert.Equal(t, 5, got.TotalTasks)
	assert.Equal(t, 2, got.CompletedTasks)
	assert.Equal(t, 3, got.CurrentStreak)
}

func TestRecomputePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk gone")
	store := &memStore{listErr: boom}
	engine := New(store, fixedClock("2024-03-10"))

	_, err := engine.RecomputeEntryStats()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.saves)
}
