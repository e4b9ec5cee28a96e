// ABOUTME: Snapshot export and import for journal data.
// ABOUTME: Supports JSON and YAML documents plus a Markdown journal export.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the document version written by Export.
const SnapshotVersion = 1

// Snapshot is the portable export document. Tasks and the assistant log are
// not part of it, and Import leaves them untouched.
type Snapshot struct {
	Version    int          `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exportedAt" yaml:"exportedAt"`
	Data       SnapshotData `json:"data" yaml:"data"`
}

// SnapshotData holds the exported tables.
type SnapshotData struct {
	JournalEntries []*models.JournalEntry `json:"journal_entries" yaml:"journal_entries"`
	Schedule       []*models.ScheduleItem `json:"schedule" yaml:"schedule"`
	Homework       []*models.HomeworkItem `json:"homework" yaml:"homework"`
	Settings       *models.Settings       `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Export dumps journal entries, schedule, homework and settings.
func (d *DB) Export() (*Snapshot, error) {
	entries, err := d.ListEntries()
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}
	schedule, err := d.ListSchedule()
	if err != nil {
		return nil, fmt.Errorf("export schedule: %w", err)
	}
	homework, err := d.ListHomework()
	if err != nil {
		return nil, fmt.Errorf("export homework: %w", err)
	}
	settings, err := d.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: d.now(),
		Data: SnapshotData{
			JournalEntries: entries,
			Schedule:       schedule,
			Homework:       homework,
			Settings:       settings,
		},
	}, nil
}

// Import replaces journal entries, schedule and homework with the snapshot's
// rows, keeping their IDs and timestamps, then replaces settings if present.
// Every record is validated before anything is written.
func (d *DB) Import(snap *Snapshot) error {
	if snap == nil {
		return &validate.Error{Messages: []string{"snapshot is empty"}}
	}
	if snap.Version > SnapshotVersion {
		return &validate.Error{Messages: []string{
			fmt.Sprintf("snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion),
		}}
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"journal_entries", "schedule", "homework"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, e := range snap.Data.JournalEntries {
		if _, err := insertEntry(tx, e, true); err != nil {
			return fmt.Errorf("import entry %s: %w", e.Date, err)
		}
	}
	for _, s := range snap.Data.Schedule {
		if _, err := insertScheduleItem(tx, s, true); err != nil {
			return fmt.Errorf("import schedule item %d: %w", s.ID, err)
		}
	}
	now := d.now()
	for _, h := range snap.Data.Homework {
		h.SyncCompletion(now)
		if _, err := insertHomework(tx, h, true); err != nil {
			return fmt.Errorf("import homework %d: %w", h.ID, err)
		}
	}
	if snap.Data.Settings != nil {
		if err := upsertSettings(tx, snap.Data.Settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	logger.Info("snapshot imported",
		"entries", len(snap.Data.JournalEntries),
		"schedule", len(snap.Data.Schedule),
		"homework", len(snap.Data.Homework))
	return nil
}

func validateSnapshot(snap *Snapshot) error {
	var messages []string
	collect := func(what string, v any) {
		if err := validate.Struct(v); err != nil {
			for _, m := range validate.Messages(err) {
				messages = append(messages, what+": "+m)
			}
		}
	}

	dates := make(map[string]bool, len(snap.Data.JournalEntries))
	for i, e := range snap.Data.JournalEntries {
		if e == nil {
			messages = append(messages, fmt.Sprintf("journal_entries[%d]: missing", i))
			continue
		}
		if dates[e.Date] {
			messages = append(messages, fmt.Sprintf("journal_entries[%d]: duplicate date %s", i, e.Date))
		}
		dates[e.Date] = true
		collect(fmt.Sprintf("journal_entries[%d]", i), e)
	}
	for i, s := range snap.Data.Schedule {
		if s == nil {
			messages = append(messages, fmt.Sprintf("schedule[%d]: missing", i))
			continue
		}
		collect(fmt.Sprintf("schedule[%d]", i), s)
	}
	for i, h := range snap.Data.Homework {
		if h == nil {
			messages = append(messages, fmt.Sprintf("homework[%d]: missing", i))
			continue
		}
		collect(fmt.Sprintf("homework[%d]", i), h)
	}
	if snap.Data.Settings != nil {
		collect("settings", snap.Data.Settings)
	}

	if len(messages) > 0 {
		return &validate.Error{Messages: messages}
	}
	return nil
}

// ExportJSON exports a snapshot as indented JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	snap, err := d.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ExportYAML exports a snapshot as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	snap, err := d.Export()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(snap)
}

// ImportJSON imports a snapshot from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.Import(&snap)
}

// ImportYAML imports a snapshot from YAML bytes.
func (d *DB) ImportYAML(data []byte) error {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return d.Import(&snap)
}

// ExportMarkdown renders journal entries on or after since (all if empty)
// as a Markdown table, oldest first.
func (d *DB) ExportMarkdown(since string) (string, error) {
	entries, err := d.ListEntries()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := d.now()

	sb.WriteString(fmt.Sprintf("# Daybook Export - %s\n\n", models.FormatDate(now)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString("| Date | Mood | Energy | Sleep | Tags | Note |\n")
	sb.WriteString("|------|------|--------|-------|------|------|\n")

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if since != "" && e.Date < since {
			continue
		}
		note := strings.ReplaceAll(e.Note, "\n", " ")
		sb.WriteString(fmt.Sprintf("| %s | %d/10 | %d | %.1fh | %s | %s |\n",
			e.Date, e.Mood, e.Energy, e.SleepHours, strings.Join(e.Tags, ", "), note))
	}

	return sb.String(), nil
}
