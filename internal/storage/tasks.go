// ABOUTME: Task CRUD operations for SQLite storage.
// ABOUTME: Toggling flips completion and its timestamp in one statement.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

const taskColumns = `id, title, notes, list, area, project, when_at, deadline, tags, completed, completed_at, created_at, updated_at`

// CreateTask stores a new task.
func (d *DB) CreateTask(t *models.Task) error {
	if t.List == "" {
		t.List = models.ListInbox
	}
	t.Tags = models.NormalizeTags(t.Tags)
	if err := validate.Struct(t); err != nil {
		return err
	}

	now := d.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.SyncCompletion(now)

	id, err := insertTask(d.db, t, false)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	t.ID = id
	return nil
}

func insertTask(ex execer, t *models.Task, keepID bool) (int64, error) {
	tags, err := encodeJSON(models.NormalizeTags(t.Tags))
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}

	var id any
	if keepID {
		id = t.ID
	}
	res, err := ex.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, t.Title, t.Notes, string(t.List), t.Area, t.Project,
		nullString(t.When), nullString(t.Deadline), tags, boolInt(t.Completed),
		formatNullTime(t.CompletedAt), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTask retrieves a task by ID.
func (d *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(d.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns tasks matching filter, oldest first.
func (d *DB) ListTasks(filter models.TaskFilter) ([]*models.Task, error) {
	var where []string
	var args []any

	if filter.List != nil {
		where = append(where, "list = ?")
		args = append(args, string(*filter.List))
	}
	if filter.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListActiveTasks returns tasks that are not completed.
func (d *DB) ListActiveTasks() ([]*models.Task, error) {
	completed := false
	return d.ListTasks(models.TaskFilter{Completed: &completed})
}

// ListCompletedTasks returns completed tasks, most recently completed first.
func (d *DB) ListCompletedTasks() ([]*models.Task, error) {
	rows, err := d.db.Query(`
		SELECT ` + taskColumns + ` FROM tasks
		WHERE completed = 1
		ORDER BY completed_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// UpdateTask merges patch into the stored task and refreshes UpdatedAt.
func (d *DB) UpdateTask(id int64, patch models.TaskPatch) (*models.Task, error) {
	cur, err := d.GetTask(id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*cur)
	if err := validate.Struct(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = d.now()

	tags, err := encodeJSON(merged.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	res, err := d.db.Exec(`
		UPDATE tasks
		SET title = ?, notes = ?, list = ?, area = ?, project = ?, when_at = ?, deadline = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, merged.Title, merged.Notes, string(merged.List), merged.Area, merged.Project,
		nullString(merged.When), nullString(merged.Deadline), tags, formatTime(merged.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := affectedOne(res, "task", id); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &merged, nil
}

// DeleteTask removes a task by ID.
func (d *DB) DeleteTask(id int64) error {
	res, err := d.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := affectedOne(res, "task", id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ToggleTask flips completion. Completing stamps CompletedAt; reopening clears it.
func (d *DB) ToggleTask(id int64) (*models.Task, error) {
	if err := d.toggle("tasks", "task", id); err != nil {
		return nil, err
	}
	return d.GetTask(id)
}

// CountTasks returns total and completed task counts.
func (d *DB) CountTasks() (models.TaskStats, error) {
	var s models.TaskStats
	err := d.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks`).Scan(&s.Total, &s.Completed)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("count tasks: %w", err)
	}
	return s, nil
}

// toggle flips completed and completed_at of one row. Both CASE arms read the
// pre-update value, so the row never has completed=1 without a timestamp.
func (d *DB) toggle(table, what string, id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("toggle %s: %w", what, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTime(d.now())
	res, err := tx.Exec(`
		UPDATE `+table+`
		SET completed = CASE completed WHEN 0 THEN 1 ELSE 0 END,
		    completed_at = CASE completed WHEN 0 THEN ? ELSE NULL END,
		    updated_at = ?
		WHERE id = ?
	`, now, now, id)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", what, err)
	}
	if err := affectedOne(res, what, id); err != nil {
		return fmt.Errorf("toggle %s: %w", what, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("toggle %s: %w", what, err)
	}
	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var list, tags, createdAt, updatedAt string
	var when, deadline, completedAt sql.NullString
	var completed int

	err := row.Scan(&t.ID, &t.Title, &t.Notes, &list, &t.Area, &t.Project, &when, &deadline,
		&tags, &completed, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	t.List = models.TaskList(list)
	t.When = stringPtr(when)
	t.Deadline = stringPtr(deadline)
	t.Tags = decodeTags(tags)
	t.Completed = completed != 0
	t.CompletedAt = parseNullTime(completedAt)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*models.Task, error) {
	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
