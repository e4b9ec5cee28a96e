// ABOUTME: HomeworkItem model for school assignments.
// ABOUTME: Priority is low, medium or high; due dates are calendar days.
package models

import "time"

// Priority ranks homework urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValidPriority checks if a string names a priority.
func IsValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// HomeworkItem is an assignment with a due date.
type HomeworkItem struct {
	ID          int64      `json:"id" yaml:"id"`
	Subject     string     `json:"subject" yaml:"subject" validate:"required,min=1,max=255"`
	Description string     `json:"description" yaml:"description" validate:"max=5000"`
	DueDate     string     `json:"dueDate" yaml:"dueDate" validate:"required,datetime=2006-01-02"`
	Priority    Priority   `json:"priority" yaml:"priority" validate:"oneof=low medium high"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completedAt" yaml:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// SyncCompletion makes CompletedAt agree with Completed.
func (h *HomeworkItem) SyncCompletion(now time.Time) {
	h.CompletedAt = syncCompletedAt(h.Completed, h.CompletedAt, now)
}

func syncCompletedAt(completed bool, at *time.Time, now time.Time) *time.Time {
	switch {
	case !completed:
		return nil
	case at == nil:
		return &now
	}
	return at
}

// NewHomeworkItem creates a medium-priority assignment.
func NewHomeworkItem(subject, dueDate string) *HomeworkItem {
	return &HomeworkItem{
		Subject:  subject,
		DueDate:  dueDate,
		Priority: PriorityMedium,
	}
}

// WithPriority sets the priority.
func (h *HomeworkItem) WithPriority(p Priority) *HomeworkItem {
	h.Priority = p
	return h
}

// WithDescription sets the description.
func (h *HomeworkItem) WithDescription(d string) *HomeworkItem {
	h.Description = d
	return h
}

// HomeworkPatch is a partial update; nil fields are left unchanged.
type HomeworkPatch struct {
	Subject     *string
	Description *string
	DueDate     *string
	Priority    *Priority
}

// Apply merges the patch into a copy of h.
func (p HomeworkPatch) Apply(h HomeworkItem) HomeworkItem {
	if p.Subject != nil {
		h.Subject = *p.Subject
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.DueDate != nil {
		h.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		h.Priority = *p.Priority
	}
	return h
}
