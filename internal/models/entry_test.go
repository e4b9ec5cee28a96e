// ABOUTME: Tests for JournalEntry model, tag normalization and patches.
// ABOUTME: Validates constructor defaults and builder methods.
package models

import (
	"testing"
	"time"
)

func TestNewJournalEntry(t *testing.T) {
	e := NewJournalEntry("2025-03-01", 7)

	if e.Date != "2025-03-01" {
		t.Errorf("Date = %s, want 2025-03-01", e.Date)
	}
	if e.Mood != 7 {
		t.Errorf("Mood = %d, want 7", e.Mood)
	}
	if e.SleepQuality != 3 {
		t.Errorf("SleepQuality = %d, want 3", e.SleepQuality)
	}
	if e.Tags == nil {
		t.Error("expected non-nil tags")
	}
}

func TestWithTagsDropsDuplicates(t *testing.T) {
	e := NewJournalEntry("2025-03-01", 7).WithTags("exercised", "", "reading", "exercised")

	if len(e.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", e.Tags)
	}
	if !e.HasTag("reading") {
		t.Error("expected reading tag")
	}
	if e.HasTag("stressed") {
		t.Error("did not expect stressed tag")
	}
}

func TestEntryPatchApply(t *testing.T) {
	orig := *NewJournalEntry("2025-03-01", 5).WithNote("old")
	mood := 9
	note := "new"

	got := EntryPatch{Mood: &mood, Note: &note}.Apply(orig)

	if got.Mood != 9 || got.Note != "new" {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Energy != orig.Energy {
		t.Error("unpatched field changed")
	}
	if orig.Mood != 5 {
		t.Error("original entry was mutated")
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2025-03-01", -1, "2025-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2025-12-31", 1, "2026-01-01"},
	}

	for _, tt := range tests {
		got, err := AddDays(tt.date, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) error: %v", tt.date, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.date, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("03/01/2025", 1); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestIsoWeekday(t *testing.T) {
	monday := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	if got := IsoWeekday(monday); got != 1 {
		t.Errorf("IsoWeekday(monday) = %d, want 1", got)
	}
	if got := IsoWeekday(sunday); got != 7 {
		t.Errorf("IsoWeekday(sunday) = %d, want 7", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Exercised", "outdoors", "", "exercised", "OUTDOORS "})
	want := []string{"exercised", "outdoors"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
