// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates confirmation handling, directory creation and file content.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedSkillContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "---\n") {
		t.Error("Expected skill to start with front matter")
	}
	for _, want := range []string{"name: daybook", "daybook entry add", "daybook task add", "daybook insights"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected skill to mention %q", want)
		}
	}
}

func TestInstallSkillWithConfirm(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	installed, err := installSkill(home, strings.NewReader("y\n"), &out, false)
	if err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !installed {
		t.Fatal("Expected skill to be installed")
	}

	skillPath := filepath.Join(home, ".claude", "skills", "daybook", "SKILL.md")
	got, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	want, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(got, want) {
		t.Error("Installed skill does not match embedded content")
	}
}

func TestInstallSkillDeclined(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	installed, err := installSkill(home, strings.NewReader("n\n"), &out, false)
	if err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if installed {
		t.Error("Expected install to be skipped")
	}
	if !strings.Contains(out.String(), "canceled") {
		t.Errorf("Expected cancel message, got %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(home, ".claude")); !os.IsNotExist(err) {
		t.Error("Expected no files to be written")
	}
}

func TestInstallSkillOverwrites(t *testing.T) {
	home := t.TempDir()
	skillDir := filepath.Join(home, ".claude", "skills", "daybook")
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if _, err := installSkill(home, strings.NewReader(""), &out, true); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite notice")
	}

	got, _ := os.ReadFile(filepath.Join(skillDir, "SKILL.md"))
	if string(got) == "old" {
		t.Error("Expected skill file to be replaced")
	}
}
