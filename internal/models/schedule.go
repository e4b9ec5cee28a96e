// ABOUTME: ScheduleItem model for the weekly class timetable.
// ABOUTME: DayOfWeek runs Monday=1 through Sunday=7.
package models

import "time"

// ScheduleItem is a recurring or one-off timetable slot.
type ScheduleItem struct {
	ID        int64     `json:"id" yaml:"id"`
	Subject   string    `json:"subject" yaml:"subject" validate:"required,min=1,max=255"`
	DayOfWeek int       `json:"dayOfWeek" yaml:"dayOfWeek" validate:"min=1,max=7"`
	StartTime string    `json:"startTime" yaml:"startTime" validate:"required,datetime=15:04"`
	EndTime   string    `json:"endTime" yaml:"endTime" validate:"required,datetime=15:04"`
	Room      string    `json:"room" yaml:"room" validate:"max=100"`
	Color     string    `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
	Recurring bool      `json:"recurring" yaml:"recurring"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewScheduleItem creates a recurring slot.
func NewScheduleItem(subject string, day int, start, end string) *ScheduleItem {
	return &ScheduleItem{
		Subject:   subject,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Recurring: true,
	}
}

// SchedulePatch is a partial update; nil fields are left unchanged.
type SchedulePatch struct {
	Subject   *string
	DayOfWeek *int
	StartTime *string
	EndTime   *string
	Room      *string
	Color     *string
	Recurring *bool
}

// Apply merges the patch into a copy of s.
func (p SchedulePatch) Apply(s ScheduleItem) ScheduleItem {
	if p.Subject != nil {
		s.Subject = *p.Subject
	}
	if p.DayOfWeek != nil {
		s.DayOfWeek = *p.DayOfWeek
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Room != nil {
		s.Room = *p.Room
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Recurring != nil {
		s.Recurring = *p.Recurring
	}
	return s
}
