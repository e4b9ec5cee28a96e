// ABOUTME: Class schedule CRUD operations for SQLite storage.
// ABOUTME: Items are keyed by ISO weekday and ordered by start time.
package storage

import (
	"fmt"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

const scheduleColumns = `id, subject, day_of_week, start_time, end_time, room, color, recurring, created_at, updated_at`

// CreateScheduleItem stores a new schedule item.
func (d *DB) CreateScheduleItem(s *models.ScheduleItem) error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	now := d.now()
	s.CreatedAt = now
	s.UpdatedAt = now

	id, err := insertScheduleItem(d.db, s, false)
	if err != nil {
		return fmt.Errorf("create schedule item: %w", err)
	}
	s.ID = id
	return nil
}

func insertScheduleItem(ex execer, s *models.ScheduleItem, keepID bool) (int64, error) {
	var id any
	if keepID {
		id = s.ID
	}
	res, err := ex.Exec(`
		INSERT INTO schedule (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, s.Subject, s.DayOfWeek, s.StartTime, s.EndTime, s.Room, s.Color,
		boolInt(s.Recurring), formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetScheduleItem retrieves a schedule item by ID.
func (d *DB) GetScheduleItem(id int64) (*models.ScheduleItem, error) {
	s, err := scanScheduleItem(d.db.QueryRow(`SELECT `+scheduleColumns+` FROM schedule WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get schedule item %d: %w", id, err)
	}
	return s, nil
}

// ListSchedule returns the whole week, Monday first.
func (d *DB) ListSchedule() ([]*models.ScheduleItem, error) {
	return d.querySchedule(`SELECT ` + scheduleColumns + ` FROM schedule ORDER BY day_of_week ASC, start_time ASC, id ASC`)
}

// ListScheduleByDay returns one weekday's items ordered by start time.
func (d *DB) ListScheduleByDay(day int) ([]*models.ScheduleItem, error) {
	if day < 1 || day > 7 {
		return nil, &validate.Error{Messages: []string{fmt.Sprintf("dayOfWeek must be between 1 and 7, got %d", day)}}
	}
	return d.querySchedule(`
		SELECT `+scheduleColumns+` FROM schedule
		WHERE day_of_week = ?
		ORDER BY start_time ASC, id ASC
	`, day)
}

func (d *DB) querySchedule(query string, args ...any) ([]*models.ScheduleItem, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	items := []*models.ScheduleItem{}
	for rows.Next() {
		s, err := scanScheduleItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// UpdateScheduleItem merges patch into the stored item and refreshes UpdatedAt.
func (d *DB) UpdateScheduleItem(id int64, patch models.SchedulePatch) (*models.ScheduleItem, error) {
	cur, err := d.GetScheduleItem(id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*cur)
	if err := validate.Struct(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = d.now()

	res, err := d.db.Exec(`
		UPDATE schedule
		SET subject = ?, day_of_week = ?, start_time = ?, end_time = ?, room = ?, color = ?, recurring = ?, updated_at = ?
		WHERE id = ?
	`, merged.Subject, merged.DayOfWeek, merged.StartTime, merged.EndTime, merged.Room, merged.Color,
		boolInt(merged.Recurring), formatTime(merged.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update schedule item: %w", err)
	}
	if err := affectedOne(res, "schedule item", id); err != nil {
		return nil, fmt.Errorf("update schedule item: %w", err)
	}
	return &merged, nil
}

// DeleteScheduleItem removes a schedule item by ID.
func (d *DB) DeleteScheduleItem(id int64) error {
	res, err := d.db.Exec("DELETE FROM schedule WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete schedule item: %w", err)
	}
	if err := affectedOne(res, "schedule item", id); err != nil {
		return fmt.Errorf("delete schedule item: %w", err)
	}
	return nil
}

func scanScheduleItem(row rowScanner) (*models.ScheduleItem, error) {
	var s models.ScheduleItem
	var createdAt, updatedAt string
	var recurring int

	err := row.Scan(&s.ID, &s.Subject, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.Room, &s.Color,
		&recurring, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan schedule item: %w", err)
	}

	s.Recurring = recurring != 0
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}
