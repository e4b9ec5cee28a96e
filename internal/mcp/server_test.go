// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers tool handlers, quota metering, the message log and resource payloads.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/daybook/internal/app"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Sunday.
var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// setupTestServer creates a server over a temp database with a fixed clock.
func setupTestServer(t *testing.T, opts ...app.Option) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "daybook.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetClock(func() time.Time { return testNow })

	opts = append([]app.Option{app.WithClock(func() time.Time { return testNow })}, opts...)
	server, err := NewServer(app.New(db, opts...))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func intPtr(i int) *int { return &i }

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.app == nil {
		t.Error("Expected non-nil app")
	}
}

func TestHandleLogEntry(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     logEntryInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "defaults to today",
			input: logEntryInput{Mood: 7, Tags: []string{"Outdoors"}},
		},
		{
			name:  "explicit date with sleep",
			input: logEntryInput{Date: "2024-03-09", Mood: 5, SleepHours: new(float64), SleepQuality: intPtr(2)},
		},
		{
			name:      "duplicate date",
			input:     logEntryInput{Date: "2024-03-10", Mood: 4},
			wantErr:   true,
			errSubstr: "already exists",
		},
		{
			name:      "mood out of range",
			input:     logEntryInput{Date: "2024-03-08", Mood: 11},
			wantErr:   true,
			errSubstr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := server.handleLogEntry(ctx, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Expected error containing %q, got %v", tt.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Entry == nil || out.Entry.ID == 0 {
				t.Fatalf("Expected stored entry, got %+v", out.Entry)
			}
		})
	}

	today, err := db.GetEntryByDate("2024-03-10")
	if err != nil {
		t.Fatalf("GetEntryByDate failed: %v", err)
	}
	if !today.HasTag(models.TagOutdoors) {
		t.Errorf("Expected normalized outdoors tag, got %v", today.Tags)
	}

	stats, err := db.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if stats.TotalEntries != 2 || stats.CurrentStreak != 2 {
		t.Errorf("Expected 2 entries with streak 2, got %+v", stats)
	}
}

func TestTrackedLogsMessages(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	call := tracked(server, "log_entry", server.handleLogEntry)
	if _, _, err := call(ctx, &mcp.CallToolRequest{}, logEntryInput{Mood: 8}); err != nil {
		t.Fatalf("log_entry failed: %v", err)
	}
	if _, _, err := call(ctx, &mcp.CallToolRequest{}, logEntryInput{Mood: 0}); err == nil {
		t.Fatal("Expected validation error")
	} else if !strings.Contains(err.Error(), "invalid input") {
		t.Errorf("Expected flattened validation error, got %v", err)
	}

	msgs, err := db.ListMessages(0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || !strings.HasPrefix(msgs[0].Content, "log_entry ") {
		t.Errorf("Unexpected request message: %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || !strings.Contains(msgs[1].Content, "Logged 2024-03-10") {
		t.Errorf("Unexpected reply message: %+v", msgs[1])
	}
	if !strings.HasPrefix(msgs[3].Content, "error: ") {
		t.Errorf("Expected error reply, got %q", msgs[3].Content)
	}
}

func TestTrackedQuota(t *testing.T) {
	server, db := setupTestServer(t, app.WithAILimit(2))
	ctx := context.Background()

	call := tracked(server, "get_stats", server.handleGetStats)
	for i := 0; i < 2; i++ {
		if _, _, err := call(ctx, &mcp.CallToolRequest{}, emptyInput{}); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	_, _, err := call(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err == nil || !strings.Contains(err.Error(), "limit") {
		t.Fatalf("Expected quota error, got %v", err)
	}

	msgs, err := db.ListMessages(0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Errorf("Rejected call should not be logged, got %d messages", len(msgs))
	}
}

func TestHandleListEntries(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	for _, d := range []string{"2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09"} {
		if _, _, err := server.handleLogEntry(ctx, logEntryInput{Date: d, Mood: 6}); err != nil {
			t.Fatalf("log %s: %v", d, err)
		}
	}

	out, _, err := server.handleListEntries(ctx, listEntriesInput{Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out.Count != 2 || out.Entries[0].Date != "2024-03-09" {
		t.Errorf("Expected two newest entries, got %+v", out.Entries)
	}

	out, _, err = server.handleListEntries(ctx, listEntriesInput{From: "2024-03-07", To: "2024-03-08"})
	if err != nil {
		t.Fatalf("range failed: %v", err)
	}
	if out.Count != 2 || out.Entries[0].Date != "2024-03-07" {
		t.Errorf("Expected ascending range, got %+v", out.Entries)
	}

	if _, _, err := server.handleListEntries(ctx, listEntriesInput{From: "March"}); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestTaskTools(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	added, _, err := server.handleAddTask(ctx, addTaskInput{Title: "Read chapter 4", List: "today", Tags: []string{"school"}})
	if err != nil {
		t.Fatalf("add_task failed: %v", err)
	}
	if _, _, err := server.handleAddTask(ctx, addTaskInput{Title: "Plan trip"}); err != nil {
		t.Fatalf("add_task failed: %v", err)
	}
	if _, _, err := server.handleAddTask(ctx, addTaskInput{Title: "Bad", List: "later"}); err == nil {
		t.Error("Expected error for unknown list")
	}

	out, _, err := server.handleListTasks(ctx, listTasksInput{List: "today"})
	if err != nil {
		t.Fatalf("list_tasks failed: %v", err)
	}
	if out.Count != 1 || out.Tasks[0].ID != added.Task.ID {
		t.Errorf("Expected only the today task, got %+v", out.Tasks)
	}

	toggled, msg, err := server.handleToggleTask(ctx, toggleTaskInput{ID: added.Task.ID})
	if err != nil {
		t.Fatalf("toggle_task failed: %v", err)
	}
	if !toggled.Task.Completed || toggled.Task.CompletedAt == nil {
		t.Errorf("Expected completed task, got %+v", toggled.Task)
	}
	if !strings.Contains(msg, "complete") {
		t.Errorf("Unexpected reply %q", msg)
	}

	done := true
	out, _, err = server.handleListTasks(ctx, listTasksInput{Completed: &done})
	if err != nil {
		t.Fatalf("list_tasks failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("Expected 1 completed task, got %d", out.Count)
	}

	stats, err := db.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if stats.TotalTasks != 2 || stats.CompletedTasks != 1 {
		t.Errorf("Expected 1/2 tasks done, got %+v", stats)
	}

	if _, _, err := server.handleToggleTask(ctx, toggleTaskInput{ID: 999}); err == nil {
		t.Error("Expected error toggling missing task")
	}
	if _, _, err := server.handleListTasks(ctx, listTasksInput{List: "later"}); err == nil {
		t.Error("Expected error for unknown list filter")
	}
}

func TestHomeworkTools(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	for _, in := range []addHomeworkInput{
		{Subject: "Math", DueDate: "2024-03-12", Priority: "high"},
		{Subject: "History", DueDate: "2024-03-20"},
	} {
		if _, _, err := server.handleAddHomework(ctx, in); err != nil {
			t.Fatalf("add_homework failed: %v", err)
		}
	}
	if _, _, err := server.handleAddHomework(ctx, addHomeworkInput{Subject: "Art", DueDate: "2024-03-12", Priority: "urgent"}); err == nil {
		t.Error("Expected error for unknown priority")
	}

	out, _, err := server.handleListHomework(ctx, listHomeworkInput{DueBy: "2024-03-15"})
	if err != nil {
		t.Fatalf("list_homework failed: %v", err)
	}
	if out.Count != 1 || out.Homework[0].Subject != "Math" {
		t.Errorf("Expected only Math, got %+v", out.Homework)
	}

	out, _, err = server.handleListHomework(ctx, listHomeworkInput{})
	if err != nil {
		t.Fatalf("list_homework failed: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Expected 2 assignments, got %d", out.Count)
	}
}

func TestInsightToolsWithoutData(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	weekly, _, err := server.handleWeeklySummary(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("weekly_summary failed: %v", err)
	}
	if weekly.Summary != nil || weekly.Message == "" {
		t.Errorf("Expected empty-week message, got %+v", weekly)
	}

	forecast, _, err := server.handleMoodForecast(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("mood_forecast failed: %v", err)
	}
	if forecast.Forecast != nil {
		t.Error("Expected no forecast without entries")
	}

	ins, reply, err := server.handleGetInsights(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("get_insights failed: %v", err)
	}
	if len(ins.Insights) != 1 || reply == "" {
		t.Errorf("Expected a single placeholder insight, got %+v", ins.Insights)
	}
}

func TestInsightToolsWithData(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		date, _ := models.AddDays("2024-03-10", -i)
		in := logEntryInput{Date: date, Mood: 4 + i%4, Energy: intPtr(60), Tags: []string{"exercised"}}
		if _, _, err := server.handleLogEntry(ctx, in); err != nil {
			t.Fatalf("log %s: %v", date, err)
		}
	}

	weekly, _, err := server.handleWeeklySummary(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("weekly_summary failed: %v", err)
	}
	if weekly.Summary == nil || weekly.Summary.TotalDays != 7 {
		t.Errorf("Expected 7 days in summary, got %+v", weekly.Summary)
	}

	forecast, _, err := server.handleMoodForecast(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("mood_forecast failed: %v", err)
	}
	if forecast.Forecast == nil || forecast.Forecast.SampleSize != 8 {
		t.Errorf("Expected forecast over 8 entries, got %+v", forecast.Forecast)
	}

	ins, _, err := server.handleGetInsights(ctx, emptyInput{})
	if err != nil {
		t.Fatalf("get_insights failed: %v", err)
	}
	if len(ins.Tags) != 1 || ins.Tags[0].Tag != "exercised" {
		t.Errorf("Expected exercised tag pattern, got %+v", ins.Tags)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleLogEntry(ctx, logEntryInput{Mood: 6}); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := db.CreateScheduleItem(models.NewScheduleItem("Chess club", 7, "10:00", "11:00")); err != nil {
		t.Fatalf("CreateScheduleItem failed: %v", err)
	}
	if err := db.CreateScheduleItem(models.NewScheduleItem("Biology", 1, "09:00", "10:00")); err != nil {
		t.Fatalf("CreateScheduleItem failed: %v", err)
	}
	if _, _, err := server.handleAddHomework(ctx, addHomeworkInput{Subject: "Essay", DueDate: "2024-03-15"}); err != nil {
		t.Fatalf("add_homework failed: %v", err)
	}
	if _, _, err := server.handleAddHomework(ctx, addHomeworkInput{Subject: "Project", DueDate: "2024-04-01"}); err != nil {
		t.Fatalf("add_homework failed: %v", err)
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("today resource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != todayURI {
		t.Fatalf("Unexpected contents: %+v", result.Contents)
	}

	var view todayView
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &view); err != nil {
		t.Fatalf("Failed to decode resource: %v", err)
	}
	if view.Date != "2024-03-10" || view.DayOfWeek != 7 {
		t.Errorf("Unexpected day: %s (%d)", view.Date, view.DayOfWeek)
	}
	if view.Entry == nil || view.Entry.Mood != 6 {
		t.Errorf("Expected today's entry, got %+v", view.Entry)
	}
	if len(view.Schedule) != 1 || view.Schedule[0].Subject != "Chess club" {
		t.Errorf("Expected Sunday schedule only, got %+v", view.Schedule)
	}
	if len(view.Homework) != 1 || view.Homework[0].Subject != "Essay" {
		t.Errorf("Expected homework due this week only, got %+v", view.Homework)
	}
}

func TestHandleTodayResourceEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	result, err := server.handleTodayResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("today resource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"entry": null`) {
		t.Errorf("Expected null entry, got %s", result.Contents[0].Text)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	call := tracked(server, "log_entry", server.handleLogEntry)
	if _, _, err := call(ctx, &mcp.CallToolRequest{}, logEntryInput{Mood: 9}); err != nil {
		t.Fatalf("log_entry failed: %v", err)
	}

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("summary resource failed: %v", err)
	}

	var view summaryView
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &view); err != nil {
		t.Fatalf("Failed to decode resource: %v", err)
	}
	if view.Stats == nil || view.Stats.TotalEntries != 1 {
		t.Errorf("Expected 1 entry in stats, got %+v", view.Stats)
	}
	if view.Weekly == nil || view.Weekly.AvgMood != 9 {
		t.Errorf("Expected weekly summary, got %+v", view.Weekly)
	}
	if view.Forecast != nil {
		t.Error("Expected no forecast with one entry")
	}
	if view.AIUsage.Count != 1 || view.AIUsage.ResetDate != "2024-03-10" {
		t.Errorf("Expected one metered call today, got %+v", view.AIUsage)
	}
}
