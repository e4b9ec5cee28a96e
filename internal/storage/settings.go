// ABOUTME: Settings and user stats singleton persistence.
// ABOUTME: Both rows live at a fixed ID and are seeded on first read.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

const userStatsID = 1

// GetSettings returns the settings singleton, seeding defaults if absent.
func (d *DB) GetSettings() (*models.Settings, error) {
	var s models.Settings
	var notifications, aiUsage, updatedAt string
	var premiumExpiresAt sql.NullString
	var isPremium int

	err := d.db.QueryRow(`
		SELECT id, language, theme, notifications, is_premium, premium_expires_at, ai_usage, updated_at
		FROM settings WHERE id = ?
	`, models.SettingsID).Scan(&s.ID, &s.Language, &s.Theme, &notifications, &isPremium,
		&premiumExpiresAt, &aiUsage, &updatedAt)
	if isNoRows(err) {
		defaults := models.DefaultSettings()
		if err := d.SaveSettings(defaults); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if notifications != "" {
		if err := json.Unmarshal([]byte(notifications), &s.Notifications); err != nil {
			return nil, fmt.Errorf("decode notifications: %w", err)
		}
	}
	if aiUsage != "" {
		if err := json.Unmarshal([]byte(aiUsage), &s.AIUsage); err != nil {
			return nil, fmt.Errorf("decode ai usage: %w", err)
		}
	}
	s.IsPremium = isPremium != 0
	s.PremiumExpiresAt = parseNullTime(premiumExpiresAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// SaveSettings validates and upserts the settings singleton.
func (d *DB) SaveSettings(s *models.Settings) error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	s.ID = models.SettingsID
	s.UpdatedAt = d.now()
	if err := upsertSettings(d.db, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func upsertSettings(ex execer, s *models.Settings) error {
	notifications, err := encodeJSON(s.Notifications)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	aiUsage, err := encodeJSON(s.AIUsage)
	if err != nil {
		return fmt.Errorf("encode ai usage: %w", err)
	}

	_, err = ex.Exec(`
		INSERT INTO settings (id, language, theme, notifications, is_premium, premium_expires_at, ai_usage, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			theme = excluded.theme,
			notifications = excluded.notifications,
			is_premium = excluded.is_premium,
			premium_expires_at = excluded.premium_expires_at,
			ai_usage = excluded.ai_usage,
			updated_at = excluded.updated_at
	`, models.SettingsID, s.Language, s.Theme, notifications, boolInt(s.IsPremium),
		formatNullTime(s.PremiumExpiresAt), aiUsage, formatTime(s.UpdatedAt))
	return err
}

// UpdateSettings merges patch into the stored settings.
func (d *DB) UpdateSettings(patch models.SettingsPatch) (*models.Settings, error) {
	cur, err := d.GetSettings()
	if err != nil {
		return nil, err
	}
	merged := patch.Apply(*cur)
	if err := d.SaveSettings(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// GetUserStats returns the derived counters, zero-valued if never saved.
func (d *DB) GetUserStats() (*models.UserStats, error) {
	var s models.UserStats
	var lastEntry sql.NullString
	var updatedAt string

	err := d.db.QueryRow(`
		SELECT total_entries, current_streak, longest_streak, last_entry_date, total_tasks, completed_tasks, updated_at
		FROM user_stats WHERE id = ?
	`, userStatsID).Scan(&s.TotalEntries, &s.CurrentStreak, &s.LongestStreak, &lastEntry,
		&s.TotalTasks, &s.CompletedTasks, &updatedAt)
	if isNoRows(err) {
		return &models.UserStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	s.LastEntryDate = stringPtr(lastEntry)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// SaveUserStats upserts the derived counters.
func (d *DB) SaveUserStats(s *models.UserStats) error {
	s.UpdatedAt = d.now()
	_, err := d.db.Exec(`
		INSERT INTO user_stats (id, total_entries, current_streak, longest_streak, last_entry_date, total_tasks, completed_tasks, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_entries = excluded.total_entries,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_entry_date = excluded.last_entry_date,
			total_tasks = excluded.total_tasks,
			completed_tasks = excluded.completed_tasks,
			updated_at = excluded.updated_at
	`, userStatsID, s.TotalEntries, s.CurrentStreak, s.LongestStreak, nullString(s.LastEntryDate),
		s.TotalTasks, s.CompletedTasks, formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save user stats: %w", err)
	}
	return nil
}
