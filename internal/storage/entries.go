// ABOUTME: Journal entry CRUD operations for SQLite storage.
// ABOUTME: Enforces one entry per calendar date.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

const entryColumns = `id, date, mood, energy, sleep_hours, sleep_quality, tags, note, created_at, updated_at`

// CreateEntry stores a new journal entry. It returns ErrAlreadyExists if an
// entry for the same date is already present; the existing entry is kept.
func (d *DB) CreateEntry(e *models.JournalEntry) error {
	e.Tags = models.NormalizeTags(e.Tags)
	if err := validate.Struct(e); err != nil {
		return err
	}

	_, err := d.GetEntryByDate(e.Date)
	if err == nil {
		return fmt.Errorf("entry for %s: %w", e.Date, ErrAlreadyExists)
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("create entry: %w", err)
	}

	now := d.now()
	e.CreatedAt = now
	e.UpdatedAt = now

	id, err := insertEntry(d.db, e, false)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entry for %s: %w", e.Date, ErrAlreadyExists)
		}
		return fmt.Errorf("create entry: %w", err)
	}
	e.ID = id
	return nil
}

// insertEntry writes e as-is. With keepID the row keeps e.ID.
func insertEntry(ex execer, e *models.JournalEntry, keepID bool) (int64, error) {
	tags, err := encodeJSON(models.NormalizeTags(e.Tags))
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}

	var id any
	if keepID {
		id = e.ID
	}
	res, err := ex.Exec(`
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, e.Date, e.Mood, e.Energy, e.SleepHours, e.SleepQuality,
		tags, e.Note, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetEntry retrieves an entry by ID.
func (d *DB) GetEntry(id int64) (*models.JournalEntry, error) {
	e, err := scanEntry(d.db.QueryRow(`SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

// GetEntryByDate retrieves the entry for a calendar date.
func (d *DB) GetEntryByDate(date string) (*models.JournalEntry, error) {
	e, err := scanEntry(d.db.QueryRow(`SELECT `+entryColumns+` FROM journal_entries WHERE date = ?`, date))
	if err != nil {
		return nil, fmt.Errorf("get entry for %s: %w", date, err)
	}
	return e, nil
}

// ListEntries returns all entries, most recent date first.
func (d *DB) ListEntries() ([]*models.JournalEntry, error) {
	rows, err := d.db.Query(`SELECT ` + entryColumns + ` FROM journal_entries ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListEntriesInRange returns entries with from <= date <= to, oldest first.
func (d *DB) ListEntriesInRange(from, to string) ([]*models.JournalEntry, error) {
	if _, err := models.ParseDate(from); err != nil {
		return nil, &validate.Error{Messages: []string{err.Error()}}
	}
	if _, err := models.ParseDate(to); err != nil {
		return nil, &validate.Error{Messages: []string{err.Error()}}
	}

	rows, err := d.db.Query(`
		SELECT `+entryColumns+` FROM journal_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries in range: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// UpdateEntry merges patch into the stored entry and refreshes UpdatedAt.
func (d *DB) UpdateEntry(id int64, patch models.EntryPatch) (*models.JournalEntry, error) {
	cur, err := d.GetEntry(id)
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
		UPDATE journal_entries
		SET mood = ?, energy = ?, sleep_hours = ?, sleep_quality = ?, tags = ?, note = ?, updated_at = ?
		WHERE id = ?
	`, merged.Mood, merged.Energy, merged.SleepHours, merged.SleepQuality, tags, merged.Note,
		formatTime(merged.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if err := affectedOne(res, "entry", id); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return &merged, nil
}

// DeleteEntry removes an entry by ID.
func (d *DB) DeleteEntry(id int64) error {
	res, err := d.db.Exec("DELETE FROM journal_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if err := affectedOne(res, "entry", id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var e models.JournalEntry
	var tags, createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.Date, &e.Mood, &e.Energy, &e.SleepHours, &e.SleepQuality,
		&tags, &e.Note, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.Tags = decodeTags(tags)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*models.JournalEntry, error) {
	entries := []*models.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
