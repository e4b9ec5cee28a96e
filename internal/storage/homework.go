// ABOUTME: Homework CRUD operations for SQLite storage.
// ABOUTME: Shares the single-statement completion toggle with tasks.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

const homeworkColumns = `id, subject, description, due_date, priority, completed, completed_at, created_at, updated_at`

// CreateHomework stores a new homework item.
func (d *DB) CreateHomework(h *models.HomeworkItem) error {
	if h.Priority == "" {
		h.Priority = models.PriorityMedium
	}
	if err := validate.Struct(h); err != nil {
		return err
	}

	now := d.now()
	h.CreatedAt = now
	h.UpdatedAt = now
	h.SyncCompletion(now)

	id, err := insertHomework(d.db, h, false)
	if err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	h.ID = id
	return nil
}

func insertHomework(ex execer, h *models.HomeworkItem, keepID bool) (int64, error) {
	var id any
	if keepID {
		id = h.ID
	}
	res, err := ex.Exec(`
		INSERT INTO homework (`+homeworkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, h.Subject, h.Description, h.DueDate, string(h.Priority), boolInt(h.Completed),
		formatNullTime(h.CompletedAt), formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetHomework retrieves a homework item by ID.
func (d *DB) GetHomework(id int64) (*models.HomeworkItem, error) {
	h, err := scanHomework(d.db.QueryRow(`SELECT `+homeworkColumns+` FROM homework WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get homework %d: %w", id, err)
	}
	return h, nil
}

// ListHomework returns all homework ordered by due date.
func (d *DB) ListHomework() ([]*models.HomeworkItem, error) {
	return d.queryHomework(`SELECT ` + homeworkColumns + ` FROM homework ORDER BY due_date ASC, id ASC`)
}

// ListActiveHomework returns incomplete homework ordered by due date.
func (d *DB) ListActiveHomework() ([]*models.HomeworkItem, error) {
	return d.queryHomework(`
		SELECT ` + homeworkColumns + ` FROM homework
		WHERE completed = 0
		ORDER BY due_date ASC, id ASC
	`)
}

// ListHomeworkDueBy returns incomplete homework due on or before date.
func (d *DB) ListHomeworkDueBy(date string) ([]*models.HomeworkItem, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, &validate.Error{Messages: []string{err.Error()}}
	}
	return d.queryHomework(`
		SELECT `+homeworkColumns+` FROM homework
		WHERE completed = 0 AND due_date <= ?
		ORDER BY due_date ASC, id ASC
	`, date)
}

func (d *DB) queryHomework(query string, args ...any) ([]*models.HomeworkItem, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list homework: %w", err)
	}
	defer rows.Close()

	items := []*models.HomeworkItem{}
	for rows.Next() {
		h, err := scanHomework(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

// UpdateHomework merges patch into the stored item and refreshes UpdatedAt.
func (d *DB) UpdateHomework(id int64, patch models.HomeworkPatch) (*models.HomeworkItem, error) {
	cur, err := d.GetHomework(id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*cur)
	if err := validate.Struct(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = d.now()

	res, err := d.db.Exec(`
		UPDATE homework
		SET subject = ?, description = ?, due_date = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, merged.Subject, merged.Description, merged.DueDate, string(merged.Priority),
		formatTime(merged.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update homework: %w", err)
	}
	if err := affectedOne(res, "homework", id); err != nil {
		return nil, fmt.Errorf("update homework: %w", err)
	}
	return &merged, nil
}

// DeleteHomework removes a homework item by ID.
func (d *DB) DeleteHomework(id int64) error {
	res, err := d.db.Exec("DELETE FROM homework WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	if err := affectedOne(res, "homework", id); err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	return nil
}

// ToggleHomework flips completion of a homework item.
func (d *DB) ToggleHomework(id int64) (*models.HomeworkItem, error) {
	if err := d.toggle("homework", "homework", id); err != nil {
		return nil, err
	}
	return d.GetHomework(id)
}

func scanHomework(row rowScanner) (*models.HomeworkItem, error) {
	var h models.HomeworkItem
	var priority, createdAt, updatedAt string
	var completedAt sql.NullString
	var completed int

	err := row.Scan(&h.ID, &h.Subject, &h.Description, &h.DueDate, &priority, &completed,
		&completedAt, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan homework: %w", err)
	}

	h.Priority = models.Priority(priority)
	h.Completed = completed != 0
	h.CompletedAt = parseNullTime(completedAt)
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)
	return &h, nil
}
