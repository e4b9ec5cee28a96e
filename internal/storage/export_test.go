// ABOUTME: Tests for snapshot export and import.
// ABOUTME: Covers the round trip, the tasks/messages asymmetry and rejected imports.
package storage

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
	"gopkg.in/yaml.v3"
)

func seedSnapshotData(t *testing.T, db *DB) {
	t.Helper()
	entries := []*models.JournalEntry{
		models.NewJournalEntry("2024-03-08", 6).WithTags("stressed"),
		models.NewJournalEntry("2024-03-09", 7).WithSleep(8, 4),
		models.NewJournalEntry("2024-03-10", 9).WithTags("exercised", "outdoors").WithNote("hike"),
	}
	for _, e := range entries {
		if err := db.CreateEntry(e); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}
	if err := db.CreateScheduleItem(models.NewScheduleItem("Math", 1, "08:00", "09:00")); err != nil {
		t.Fatalf("CreateScheduleItem failed: %v", err)
	}
	if err := db.CreateHomework(models.NewHomeworkItem("Math", "2024-03-12")); err != nil {
		t.Fatalf("CreateHomework failed: %v", err)
	}
	theme := "dark"
	if _, err := db.UpdateSettings(models.SettingsPatch{Theme: &theme}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
}

func TestExportShape(t *testing.T) {
	db := setupTestDB(t)
	seedSnapshotData(t, db)

	data, err := db.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc["version"] != float64(SnapshotVersion) {
		t.Errorf("version = %v", doc["version"])
	}
	if _, ok := doc["exportedAt"].(string); !ok {
		t.Errorf("exportedAt missing: %v", doc["exportedAt"])
	}

	body, ok := doc["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing: %v", doc)
	}
	for _, key := range []string{"journal_entries", "schedule", "homework", "settings"} {
		if _, ok := body[key]; !ok {
			t.Errorf("data.%s missing", key)
		}
	}
	for _, key := range []string{"tasks", "ai_messages"} {
		if _, ok := body[key]; ok {
			t.Errorf("data.%s should not be exported", key)
		}
	}
	if n := len(body["journal_entries"].([]any)); n != 3 {
		t.Errorf("exported %d entries, want 3", n)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedSnapshotData(t, src)

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	original, err := src.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	restored, err := dst.Export()
	if err != nil {
		t.Fatalf("Export after import failed: %v", err)
	}

	if !reflect.DeepEqual(original.Data.JournalEntries, restored.Data.JournalEntries) {
		t.Errorf("journal entries differ after round trip")
	}
	if !reflect.DeepEqual(original.Data.Schedule, restored.Data.Schedule) {
		t.Errorf("schedule differs after round trip")
	}
	if !reflect.DeepEqual(original.Data.Homework, restored.Data.Homework) {
		t.Errorf("homework differs after round trip")
	}
	if restored.Data.Settings.Theme != "dark" {
		t.Errorf("settings not replaced: %+v", restored.Data.Settings)
	}

	// New rows continue after the imported IDs.
	e := models.NewJournalEntry("2024-03-11", 5)
	if err := dst.CreateEntry(e); err != nil {
		t.Fatalf("CreateEntry after import failed: %v", err)
	}
	if e.ID <= original.Data.JournalEntries[0].ID {
		t.Errorf("new ID %d collides with imported IDs", e.ID)
	}
}

func TestImportLeavesTasksAndMessages(t *testing.T) {
	src := setupTestDB(t)
	seedSnapshotData(t, src)
	snap, err := src.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.CreateEntry(models.NewJournalEntry("2023-12-31", 3)); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if err := dst.CreateTask(models.NewTask("keep me")); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if err := dst.AppendMessage(models.NewAIMessage(models.RoleUser, "hello")); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := dst.Import(snap); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if _, err := dst.GetEntryByDate("2023-12-31"); !errors.Is(err, ErrNotFound) {
		t.Errorf("pre-import entry should be cleared, got %v", err)
	}
	tasks, err := dst.ListTasks(models.TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "keep me" {
		t.Errorf("tasks changed by import: %v", tasks)
	}
	messages, err := dst.ListMessages(0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("messages changed by import: %d", len(messages))
	}
}

func TestImportRejectsInvalidSnapshot(t *testing.T) {
	db := setupTestDB(t)
	seedSnapshotData(t, db)

	bad := &Snapshot{
		Version: SnapshotVersion,
		Data: SnapshotData{
			JournalEntries: []*models.JournalEntry{
				models.NewJournalEntry("2024-01-01", 5),
				models.NewJournalEntry("2024-01-01", 6),
				models.NewJournalEntry("2024-01-02", 42),
			},
		},
	}

	err := db.Import(bad)
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	joined := strings.Join(verr.Messages, "\n")
	if !strings.Contains(joined, "duplicate date 2024-01-01") {
		t.Errorf("missing duplicate date message: %s", joined)
	}
	if !strings.Contains(joined, "journal_entries[2]") {
		t.Errorf("missing mood message for index 2: %s", joined)
	}

	entries, err := db.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("rejected import modified entries: %d", len(entries))
	}

	if err := db.Import(&Snapshot{Version: SnapshotVersion + 1}); err == nil {
		t.Error("expected error for a newer snapshot version")
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedSnapshotData(t, db)

	data, err := db.ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(snap.Data.JournalEntries) != 3 || len(snap.Data.Homework) != 1 {
		t.Errorf("YAML export incomplete: %+v", snap.Data)
	}

	dst := setupTestDB(t)
	if err := dst.ImportYAML(data); err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}
	got, err := dst.GetEntryByDate("2024-03-10")
	if err != nil {
		t.Fatalf("GetEntryByDate failed: %v", err)
	}
	if got.Note != "hike" || !got.HasTag(models.TagOutdoors) {
		t.Errorf("YAML import lost fields: %+v", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedSnapshotData(t, db)

	md, err := db.ExportMarkdown("2024-03-09")
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "# Daybook Export") {
		t.Error("missing header")
	}
	if strings.Contains(md, "| 2024-03-08 |") {
		t.Error("entry before since was included")
	}
	first := strings.Index(md, "| 2024-03-09 |")
	second := strings.Index(md, "| 2024-03-10 |")
	if first < 0 || second < 0 || first > second {
		t.Errorf("entries missing or not oldest first:\n%s", md)
	}
	if !strings.Contains(md, "exercised, outdoors") {
		t.Errorf("tags not rendered:\n%s", md)
	}
}
