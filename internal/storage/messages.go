// ABOUTME: Assistant message log persistence.
// ABOUTME: Messages are append-only and listed oldest first.
package storage

import (
	"fmt"

	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
)

// AppendMessage adds a message to the log.
func (d *DB) AppendMessage(m *models.AIMessage) error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	m.CreatedAt = d.now()

	res, err := d.db.Exec(`
		INSERT INTO ai_messages (role, content, created_at) VALUES (?, ?, ?)
	`, string(m.Role), m.Content, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	m.ID = id
	return nil
}

// ListMessages returns the most recent limit messages in chronological order.
// A limit <= 0 returns the whole log.
func (d *DB) ListMessages(limit int) ([]*models.AIMessage, error) {
	query := `
		SELECT id, role, content, created_at FROM (
			SELECT id, role, content, created_at FROM ai_messages
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.AIMessage{}
	for rows.Next() {
		var m models.AIMessage
		var role, createdAt string
		if err := rows.Scan(&m.ID, &role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = models.Role(role)
		m.CreatedAt = parseTime(createdAt)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// ClearMessages empties the log.
func (d *DB) ClearMessages() error {
	if _, err := d.db.Exec("DELETE FROM ai_messages"); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}
