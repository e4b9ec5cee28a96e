// ABOUTME: Task model with list placement, scheduling and completion state.
// ABOUTME: CompletedAt is set if and only if Completed is true.
package models

import "time"

// TaskList is the list a task lives in.
type TaskList string

const (
	ListInbox    TaskList = "inbox"
	ListToday    TaskList = "today"
	ListUpcoming TaskList = "upcoming"
	ListSomeday  TaskList = "someday"
)

// AllTaskLists returns every valid list.
var AllTaskLists = []TaskList{ListInbox, ListToday, ListUpcoming, ListSomeday}

// IsValidTaskList checks if a string names a task list.
func IsValidTaskList(s string) bool {
	for _, l := range AllTaskLists {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Task is a to-do item.
type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title" validate:"required,min=1,max=500"`
	Notes       string     `json:"notes" yaml:"notes" validate:"max=5000"`
	List        TaskList   `json:"list" yaml:"list" validate:"oneof=inbox today upcoming someday"`
	Area        string     `json:"area" yaml:"area" validate:"max=255"`
	Project     string     `json:"project" yaml:"project" validate:"max=255"`
	When        *string    `json:"when" yaml:"when" validate:"omitempty,taskwhen"`
	Deadline    *string    `json:"deadline" yaml:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Tags        []string   `json:"tags" yaml:"tags" validate:"max=20,dive,required,max=32"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completedAt" yaml:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// SyncCompletion makes CompletedAt agree with Completed, stamping now when a
// completed task has no timestamp and clearing a stray one on an open task.
func (t *Task) SyncCompletion(now time.Time) {
	t.CompletedAt = syncCompletedAt(t.Completed, t.CompletedAt, now)
}

// NewTask creates an inbox task.
func NewTask(title string) *Task {
	return &Task{
		Title: title,
		List:  ListInbox,
		Tags:  []string{},
	}
}

// WithList places the task in a list.
func (t *Task) WithList(list TaskList) *Task {
	t.List = list
	return t
}

// WithWhen sets when the task is planned: "today", "someday" or a date.
func (t *Task) WithWhen(when string) *Task {
	t.When = &when
	return t
}

// WithDeadline sets a due date.
func (t *Task) WithDeadline(date string) *Task {
	t.Deadline = &date
	return t
}

// WithNotes sets notes on the task.
func (t *Task) WithNotes(notes string) *Task {
	t.Notes = notes
	return t
}

// TaskPatch is a partial update; nil fields are left unchanged.
// ClearWhen and ClearDeadline reset the nullable fields to null.
type TaskPatch struct {
	Title         *string
	Notes         *string
	List          *TaskList
	Area          *string
	Project       *string
	When          *string
	ClearWhen     bool
	Deadline      *string
	ClearDeadline bool
	Tags          *[]string
}

// Apply merges the patch into a copy of t.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.List != nil {
		t.List = *p.List
	}
	if p.Area != nil {
		t.Area = *p.Area
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.ClearWhen {
		t.When = nil
	} else if p.When != nil {
		when := *p.When
		t.When = &when
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		deadline := *p.Deadline
		t.Deadline = &deadline
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	return t
}

// TaskFilter narrows ListTasks. Nil fields match everything.
type TaskFilter struct {
	List      *TaskList
	Completed *bool
}

// TaskStats is a pair of task totals.
type TaskStats struct {
	Total     int
	Completed int
}
