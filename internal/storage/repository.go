// ABOUTME: Repository interface for daybook data storage.
// ABOUTME: Defines the typed read/write surface presentation code must go through.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/daybook/internal/models"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a create would violate a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSchemaConfig is returned at startup for an invalid schema history.
	ErrSchemaConfig = errors.New("invalid schema configuration")
)

// Repository defines the storage interface for daybook data.
type Repository interface {
	// Journal entry operations
	CreateEntry(e *models.JournalEntry) error
	GetEntry(id int64) (*models.JournalEntry, error)
	GetEntryByDate(date string) (*models.JournalEntry, error)
	ListEntries() ([]*models.JournalEntry, error)
	ListEntriesInRange(from, to string) ([]*models.JournalEntry, error)
	UpdateEntry(id int64, patch models.EntryPatch) (*models.JournalEntry, error)
	DeleteEntry(id int64) error

	// Task operations
	CreateTask(t *models.Task) error
	GetTask(id int64) (*models.Task, error)
	ListTasks(filter models.TaskFilter) ([]*models.Task, error)
	ListActiveTasks() ([]*models.Task, error)
	ListCompletedTasks() ([]*models.Task, error)
	UpdateTask(id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(id int64) error
	ToggleTask(id int64) (*models.Task, error)
	CountTasks() (models.TaskStats, error)

	// Homework operations
	CreateHomework(h *models.HomeworkItem) error
	GetHomework(id int64) (*models.HomeworkItem, error)
	ListHomework() ([]*models.HomeworkItem, error)
	ListActiveHomework() ([]*models.HomeworkItem, error)
	ListHomeworkDueBy(date string) ([]*models.HomeworkItem, error)
	UpdateHomework(id int64, patch models.HomeworkPatch) (*models.HomeworkItem, error)
	DeleteHomework(id int64) error
	ToggleHomework(id int64) (*models.HomeworkItem, error)

	// Schedule operations
	CreateScheduleItem(s *models.ScheduleItem) error
	GetScheduleItem(id int64) (*models.ScheduleItem, error)
	ListSchedule() ([]*models.ScheduleItem, error)
	ListScheduleByDay(day int) ([]*models.ScheduleItem, error)
	UpdateScheduleItem(id int64, patch models.SchedulePatch) (*models.ScheduleItem, error)
	DeleteScheduleItem(id int64) error

	// Singletons
	GetSettings() (*models.Settings, error)
	SaveSettings(s *models.Settings) error
	UpdateSettings(patch models.SettingsPatch) (*models.Settings, error)
	GetUserStats() (*models.UserStats, error)
	SaveUserStats(s *models.UserStats) error

	// Assistant log
	AppendMessage(m *models.AIMessage) error
	ListMessages(limit int) ([]*models.AIMessage, error)
	ClearMessages() error

	// Snapshot export/import
	Export() (*Snapshot, error)
	Import(snap *Snapshot) error

	// Lifecycle
	SchemaVersion() (int, error)
	Close() error
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeTags(s string) []string {
	tags := []string{}
	if s == "" {
		return tags
	}
	_ = json.Unmarshal([]byte(s), &tags)
	if tags == nil {
		tags = []string{}
	}
	return tags
}

// affectedOne maps a zero-row write to ErrNotFound.
func affectedOne(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
