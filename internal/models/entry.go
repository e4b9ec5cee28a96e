// ABOUTME: JournalEntry model for the daily mood/sleep/energy log.
// ABOUTME: At most one entry exists per calendar date.
package models

import (
	"strings"
	"time"
)

// Well-known tags the insight rules look for.
const (
	TagExercised = "exercised"
	TagOutdoors  = "outdoors"
	TagStressed  = "stressed"
)

// JournalEntry is one day's log.
type JournalEntry struct {
	ID           int64     `json:"id" yaml:"id"`
	Date         string    `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Mood         int       `json:"mood" yaml:"mood" validate:"min=1,max=10"`
	Energy       int       `json:"energy" yaml:"energy" validate:"min=0,max=100"`
	SleepHours   float64   `json:"sleepHours" yaml:"sleepHours" validate:"gte=0,lte=24"`
	SleepQuality int       `json:"sleepQuality" yaml:"sleepQuality" validate:"min=1,max=5"`
	Tags         []string  `json:"tags" yaml:"tags" validate:"max=20,dive,required,max=32"`
	Note         string    `json:"note" yaml:"note" validate:"max=5000"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewJournalEntry creates an entry for date with neutral defaults.
func NewJournalEntry(date string, mood int) *JournalEntry {
	return &JournalEntry{
		Date:         date,
		Mood:         mood,
		Energy:       50,
		SleepHours:   7,
		SleepQuality: 3,
		Tags:         []string{},
	}
}

// WithSleep sets hours and quality of sleep.
func (e *JournalEntry) WithSleep(hours float64, quality int) *JournalEntry {
	e.SleepHours = hours
	e.SleepQuality = quality
	return e
}

// WithEnergy sets the energy level.
func (e *JournalEntry) WithEnergy(energy int) *JournalEntry {
	e.Energy = energy
	return e
}

// WithTags replaces the tag set, dropping duplicates.
func (e *JournalEntry) WithTags(tags ...string) *JournalEntry {
	e.Tags = NormalizeTags(tags)
	return e
}

// WithNote sets the free-text note.
func (e *JournalEntry) WithNote(note string) *JournalEntry {
	e.Note = note
	return e
}

// HasTag reports whether the entry carries tag.
func (e *JournalEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// EntryPatch is a partial update; nil fields are left unchanged.
type EntryPatch struct {
	Mood         *int
	Energy       *int
	SleepHours   *float64
	SleepQuality *int
	Tags         *[]string
	Note         *string
}

// Apply merges the patch into a copy of e.
func (p EntryPatch) Apply(e JournalEntry) JournalEntry {
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Energy != nil {
		e.Energy = *p.Energy
	}
	if p.SleepHours != nil {
		e.SleepHours = *p.SleepHours
	}
	if p.SleepQuality != nil {
		e.SleepQuality = *p.SleepQuality
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	return e
}
