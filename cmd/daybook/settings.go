// ABOUTME: CLI commands for user settings.
// ABOUTME: Shows the settings singleton and updates one key at a time.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/models"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.GetSettings()
		if err != nil {
			return err
		}

		fmt.Printf("language:        %s\n", s.Language)
		fmt.Printf("theme:           %s\n", s.Theme)
		fmt.Printf("notifications:   %s\n", onOff(s.Notifications.Enabled))
		fmt.Printf("daily-reminder:  %s\n", onOff(s.Notifications.DailyReminder))
		fmt.Printf("reminder-time:   %s\n", s.Notifications.ReminderTime)

		premium := onOff(s.IsPremium)
		if s.IsPremium && s.PremiumExpiresAt != nil {
			premium += " until " + models.FormatDate(*s.PremiumExpiresAt)
			if !s.PremiumActive(time.Now()) {
				premium += color.RedString(" (expired)")
			}
		}
		fmt.Printf("premium:         %s\n", premium)

		limit := s.AIUsage.Limit
		if cfg != nil && cfg.AIDailyLimit > 0 {
			limit = cfg.AIDailyLimit
		}
		used := 0
		if s.AIUsage.ResetDate == daybook.Today() {
			used = s.AIUsage.Count
		}
		fmt.Printf("ai-limit:        %d %s\n", limit, faint.Sprintf("(%d used today)", used))
		return nil
	},
}

// settingKeys maps each settable key to a function filling the patch.
var settingKeys = map[string]func(value string, current *models.Settings, patch *models.SettingsPatch) error{
	"language": func(v string, _ *models.Settings, p *models.SettingsPatch) error {
		p.Language = &v
		return nil
	},
	"theme": func(v string, _ *models.Settings, p *models.SettingsPatch) error {
		p.Theme = &v
		return nil
	},
	"notifications": func(v string, cur *models.Settings, p *models.SettingsPatch) error {
		on, err := parseOnOff(v)
		if err != nil {
			return err
		}
		n := cur.Notifications
		n.Enabled = on
		p.Notifications = &n
		return nil
	},
	"daily-reminder": func(v string, cur *models.Settings, p *models.SettingsPatch) error {
		on, err := parseOnOff(v)
		if err != nil {
			return err
		}
		n := cur.Notifications
		n.DailyReminder = on
		p.Notifications = &n
		return nil
	},
	"reminder-time": func(v string, cur *models.Settings, p *models.SettingsPatch) error {
		n := cur.Notifications
		n.ReminderTime = v
		p.Notifications = &n
		return nil
	},
	"premium": func(v string, _ *models.Settings, p *models.SettingsPatch) error {
		on, err := parseOnOff(v)
		if err != nil {
			return err
		}
		p.IsPremium = &on
		return nil
	},
	"premium-expires": func(v string, _ *models.Settings, p *models.SettingsPatch) error {
		t, err := models.ParseDate(v)
		if err != nil {
			return usageErr("%v", err)
		}
		p.PremiumExpiresAt = &t
		return nil
	},
	"ai-limit": func(v string, _ *models.Settings, p *models.SettingsPatch) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return usageErr("invalid limit %q", v)
		}
		p.AIDailyLimit = &n
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting.

KEYS:

  language          language code, e.g. en
  theme             light, dark or system
  notifications     on or off
  daily-reminder    on or off
  reminder-time     HH:MM
  premium           on or off
  premium-expires   YYYY-MM-DD
  ai-limit          assistant requests per day

EXAMPLES:

  daybook settings set theme dark
  daybook settings set reminder-time 21:30`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		fill, ok := settingKeys[key]
		if !ok {
			return usageErr("unknown setting %q (use %s)", key, strings.Join(settingNames(), ", "))
		}

		current, err := db.GetSettings()
		if err != nil {
			return err
		}
		var patch models.SettingsPatch
		if err := fill(value, current, &patch); err != nil {
			return err
		}

		if _, err := db.UpdateSettings(patch); err != nil {
			return err
		}
		color.Green("✓ %s = %s", key, value)
		return nil
	},
}

func settingNames() []string {
	names := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, usageErr("expected on or off, got %q", s)
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
