// ABOUTME: Settings singleton: language, theme, notifications, premium and AI usage.
// ABOUTME: There is exactly one settings record, with a fixed ID.
package models

import "time"

// SettingsID is the fixed primary key of the settings singleton.
const SettingsID = 1

// DefaultAIDailyLimit caps assistant requests per day for non-premium users.
const DefaultAIDailyLimit = 10

// Notifications configures reminders.
type Notifications struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	DailyReminder bool   `json:"dailyReminder" yaml:"dailyReminder"`
	ReminderTime  string `json:"reminderTime" yaml:"reminderTime" validate:"omitempty,datetime=15:04"`
}

// AIUsage tracks the daily assistant request counter.
type AIUsage struct {
	Count     int    `json:"count" yaml:"count" validate:"min=0"`
	ResetDate string `json:"resetDate" yaml:"resetDate" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `json:"limit" yaml:"limit" validate:"min=0"`
}

// Settings holds user preferences.
type Settings struct {
	ID               int64         `json:"id" yaml:"id"`
	Language         string        `json:"language" yaml:"language" validate:"required,min=2,max=10"`
	Theme            string        `json:"theme" yaml:"theme" validate:"oneof=light dark system"`
	Notifications    Notifications `json:"notifications" yaml:"notifications"`
	IsPremium        bool          `json:"isPremium" yaml:"isPremium"`
	PremiumExpiresAt *time.Time    `json:"premiumExpiresAt" yaml:"premiumExpiresAt"`
	AIUsage          AIUsage       `json:"aiUsage" yaml:"aiUsage"`
	UpdatedAt        time.Time     `json:"updatedAt" yaml:"updatedAt"`
}

// DefaultSettings returns the settings seeded on first use.
func DefaultSettings() *Settings {
	return &Settings{
		ID:       SettingsID,
		Language: "en",
		Theme:    "system",
		Notifications: Notifications{
			Enabled:       true,
			DailyReminder: true,
			ReminderTime:  "20:00",
		},
		AIUsage: AIUsage{Limit: DefaultAIDailyLimit},
	}
}

// PremiumActive reports whether premium is on and not expired at now.
func (s *Settings) PremiumActive(now time.Time) bool {
	if !s.IsPremium {
		return false
	}
	return s.PremiumExpiresAt == nil || s.PremiumExpiresAt.After(now)
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	Language         *string
	Theme            *string
	Notifications    *Notifications
	IsPremium        *bool
	PremiumExpiresAt *time.Time
	AIDailyLimit     *int
}

// Apply merges the patch into a copy of s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.IsPremium != nil {
		s.IsPremium = *p.IsPremium
	}
	if p.PremiumExpiresAt != nil {
		expires := *p.PremiumExpiresAt
		s.PremiumExpiresAt = &expires
	}
	if p.AIDailyLimit != nil {
		s.AIUsage.Limit = *p.AIDailyLimit
	}
	return s
}
