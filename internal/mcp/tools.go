// ABOUTME: MCP tool implementations for journal entries, tasks, homework and insights.
// ABOUTME: Every call is metered against the daily AI quota and logged to the message history.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/daybook/internal/insights"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/validate"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultListLimit = 14
	maxMessageLen    = 2000
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_entry",
		Description: "Record a day's mood, energy, sleep, tags and note (one entry per date)",
	}, tracked(s, "log_entry", s.handleLogEntry))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List journal entries, newest first, optionally within a date range",
	}, tracked(s, "list_entries", s.handleListEntries))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a task in the inbox, today, upcoming or someday list",
	}, tracked(s, "add_task", s.handleAddTask))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by list and completion",
	}, tracked(s, "list_tasks", s.handleListTasks))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Mark a task complete, or incomplete if it is already done",
	}, tracked(s, "toggle_task", s.handleToggleTask))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_homework",
		Description: "Record a homework assignment with a due date",
	}, tracked(s, "add_homework", s.handleAddHomework))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_homework",
		Description: "List homework ordered by due date",
	}, tracked(s, "list_homework", s.handleListHomework))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get streaks and entry and task totals",
	}, tracked(s, "get_stats", s.handleGetStats))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "weekly_summary",
		Description: "Summarize the last seven days of entries",
	}, tracked(s, "weekly_summary", s.handleWeeklySummary))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_insights",
		Description: "Narrative observations and tag patterns from recent entries",
	}, tracked(s, "get_insights", s.handleGetInsights))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mood_forecast",
		Description: "Predict tomorrow's mood from recent entries",
	}, tracked(s, "mood_forecast", s.handleMoodForecast))
}

// tracked meters a tool against the AI quota and logs the exchange. The tool
// body returns its output plus a short reply recorded in the message history.
// Outputs are registered untyped, so no output schema is advertised.
func tracked[In, Out any](s *Server, name string, h func(context.Context, In) (Out, string, error)) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		if _, err := s.app.ConsumeAIQuota(); err != nil {
			return nil, nil, err
		}
		s.logMessage(models.RoleUser, requestSummary(name, input))

		out, reply, err := h(ctx, input)
		if err != nil {
			err = describe(err)
			s.logMessage(models.RoleAssistant, "error: "+err.Error())
			return nil, nil, err
		}
		s.logMessage(models.RoleAssistant, reply)
		return nil, out, nil
	}
}

func (s *Server) logMessage(role models.Role, content string) {
	if len(content) > maxMessageLen {
		content = content[:maxMessageLen]
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	if err := s.app.Repo().AppendMessage(models.NewAIMessage(role, content)); err != nil {
		logger.Warn("failed to record ai message", "role", role, "err", err)
	}
}

func requestSummary(name string, input any) string {
	data, err := json.Marshal(input)
	if err != nil || string(data) == "{}" {
		return name
	}
	return name + " " + string(data)
}

// describe flattens validation failures into one message an agent can act on.
func describe(err error) error {
	if msgs := validate.Messages(err); len(msgs) > 0 {
		return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
	}
	return err
}

// Tool input/output types

type logEntryInput struct {
	Date         string   `json:"date,omitempty" jsonschema:"Day of the entry (YYYY-MM-DD), defaults to today"`
	Mood         int      `json:"mood" jsonschema:"Mood from 1 to 10"`
	Energy       *int     `json:"energy,omitempty" jsonschema:"Energy from 0 to 100, defaults to 50"`
	SleepHours   *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept, defaults to 7"`
	SleepQuality *int     `json:"sleep_quality,omitempty" jsonschema:"Sleep quality from 1 to 5, defaults to 3"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Tags such as exercised, outdoors or stressed"`
	Note         string   `json:"note,omitempty" jsonschema:"Free-form note"`
}

type entryOutput struct {
	Entry   *models.JournalEntry `json:"entry"`
	Message string               `json:"message"`
}

type listEntriesInput struct {
	From  string `json:"from,omitempty" jsonschema:"First day to include (YYYY-MM-DD)"`
	To    string `json:"to,omitempty" jsonschema:"Last day to include (YYYY-MM-DD), defaults to today"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results when no range is given (default 14)"`
}

type entriesOutput struct {
	Entries []*models.JournalEntry `json:"entries"`
	Count   int                    `json:"count"`
}

type addTaskInput struct {
	Title    string   `json:"title" jsonschema:"Task title"`
	List     string   `json:"list,omitempty" jsonschema:"inbox, today, upcoming or someday (default inbox)"`
	When     string   `json:"when,omitempty" jsonschema:"today, someday or a date (YYYY-MM-DD)"`
	Deadline string   `json:"deadline,omitempty" jsonschema:"Due date (YYYY-MM-DD)"`
	Notes    string   `json:"notes,omitempty" jsonschema:"Task notes"`
	Area     string   `json:"area,omitempty" jsonschema:"Area of responsibility"`
	Project  string   `json:"project,omitempty" jsonschema:"Project name"`
	Tags     []string `json:"tags,omitempty" jsonschema:"Task tags"`
}

type taskOutput struct {
	Task    *models.Task `json:"task"`
	Message string       `json:"message"`
}

type listTasksInput struct {
	List      string `json:"list,omitempty" jsonschema:"Filter by list"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"Filter by completion state"`
}

type tasksOutput struct {
	Tasks []*models.Task `json:"tasks"`
	Count int            `json:"count"`
}

type toggleTaskInput struct {
	ID int64 `json:"id" jsonschema:"Task ID"`
}

type addHomeworkInput struct {
	Subject     string `json:"subject" jsonschema:"Subject or course"`
	DueDate     string `json:"due_date" jsonschema:"Due date (YYYY-MM-DD)"`
	Description string `json:"description,omitempty" jsonschema:"What needs doing"`
	Priority    string `json:"priority,omitempty" jsonschema:"low, medium or high (default medium)"`
}

type homeworkOutput struct {
	Homework *models.HomeworkItem `json:"homework"`
	Message  string               `json:"message"`
}

type listHomeworkInput struct {
	IncludeCompleted bool   `json:"include_completed,omitempty" jsonschema:"Include finished assignments"`
	DueBy            string `json:"due_by,omitempty" jsonschema:"Only unfinished work due on or before this day (YYYY-MM-DD)"`
}

type homeworkListOutput struct {
	Homework []*models.HomeworkItem `json:"homework"`
	Count    int                    `json:"count"`
}

type emptyInput struct{}

type statsOutput struct {
	Stats *models.UserStats `json:"stats"`
}

type weeklyOutput struct {
	Summary *insights.WeeklySummary `json:"summary,omitempty"`
	Message string                  `json:"message"`
}

type insightsOutput struct {
	Insights []insights.Insight    `json:"insights"`
	Tags     []insights.TagPattern `json:"tags"`
}

type forecastOutput struct {
	Forecast *insights.Forecast `json:"forecast,omitempty"`
	Message  string             `json:"message"`
}

// Tool handlers

func (s *Server) handleLogEntry(ctx context.Context, input logEntryInput) (entryOutput, string, error) {
	date := input.Date
	if date == "" {
		date = s.app.Today()
	}

	e := models.NewJournalEntry(date, input.Mood)
	if input.Energy != nil {
		e.WithEnergy(*input.Energy)
	}
	if input.SleepHours != nil || input.SleepQuality != nil {
		hours, quality := e.SleepHours, e.SleepQuality
		if input.SleepHours != nil {
			hours = *input.SleepHours
		}
		if input.SleepQuality != nil {
			quality = *input.SleepQuality
		}
		e.WithSleep(hours, quality)
	}
	if len(input.Tags) > 0 {
		e.WithTags(input.Tags...)
	}
	if input.Note != "" {
		e.WithNote(input.Note)
	}

	if err := s.app.SaveEntry(e); err != nil {
		if e.ID == 0 {
			return entryOutput{}, "", err
		}
		logger.Warn("entry saved but stats refresh failed", "date", date, "err", err)
	}

	msg := fmt.Sprintf("Logged %s: mood %d/10, energy %d, sleep %.1fh (ID: %d)", e.Date, e.Mood, e.Energy, e.SleepHours, e.ID)
	return entryOutput{Entry: e, Message: msg}, msg, nil
}

func (s *Server) handleListEntries(ctx context.Context, input listEntriesInput) (entriesOutput, string, error) {
	repo := s.app.Repo()

	var (
		entries []*models.JournalEntry
		err     error
	)
	if input.From != "" || input.To != "" {
		from, to := input.From, input.To
		if to == "" {
			to = s.app.Today()
		}
		if from == "" {
			from = to
		}
		entries, err = repo.ListEntriesInRange(from, to)
	} else {
		entries, err = repo.ListEntries()
		limit := input.Limit
		if limit <= 0 {
			limit = defaultListLimit
		}
		if err == nil && len(entries) > limit {
			entries = entries[:limit]
		}
	}
	if err != nil {
		return entriesOutput{}, "", fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []*models.JournalEntry{}
	}

	return entriesOutput{Entries: entries, Count: len(entries)}, fmt.Sprintf("Found %d entries", len(entries)), nil
}

func (s *Server) handleAddTask(ctx context.Context, input addTaskInput) (taskOutput, string, error) {
	t := models.NewTask(input.Title)
	if input.List != "" {
		t.WithList(models.TaskList(input.List))
	}
	if input.When != "" {
		t.WithWhen(input.When)
	}
	if input.Deadline != "" {
		t.WithDeadline(input.Deadline)
	}
	if input.Notes != "" {
		t.WithNotes(input.Notes)
	}
	t.Area = input.Area
	t.Project = input.Project
	if len(input.Tags) > 0 {
		t.Tags = input.Tags
	}

	if err := s.app.AddTask(t); err != nil {
		if t.ID == 0 {
			return taskOutput{}, "", err
		}
		logger.Warn("task saved but stats refresh failed", "task", t.ID, "err", err)
	}

	msg := fmt.Sprintf("Added task %q to %s (ID: %d)", t.Title, t.List, t.ID)
	return taskOutput{Task: t, Message: msg}, msg, nil
}

func (s *Server) handleListTasks(ctx context.Context, input listTasksInput) (tasksOutput, string, error) {
	var filter models.TaskFilter
	if input.List != "" {
		if !models.IsValidTaskList(input.List) {
			return tasksOutput{}, "", fmt.Errorf("unknown list: %s", input.List)
		}
		list := models.TaskList(input.List)
		filter.List = &list
	}
	filter.Completed = input.Completed

	tasks, err := s.app.Repo().ListTasks(filter)
	if err != nil {
		return tasksOutput{}, "", fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasksOutput{Tasks: tasks, Count: len(tasks)}, fmt.Sprintf("Found %d tasks", len(tasks)), nil
}

func (s *Server) handleToggleTask(ctx context.Context, input toggleTaskInput) (taskOutput, string, error) {
	t, err := s.app.ToggleTask(input.ID)
	if err != nil && t == nil {
		return taskOutput{}, "", err
	}
	if err != nil {
		logger.Warn("task toggled but stats refresh failed", "task", input.ID, "err", err)
	}

	state := "incomplete"
	if t.Completed {
		state = "complete"
	}
	msg := fmt.Sprintf("Marked task %d %s", t.ID, state)
	return taskOutput{Task: t, Message: msg}, msg, nil
}

func (s *Server) handleAddHomework(ctx context.Context, input addHomeworkInput) (homeworkOutput, string, error) {
	h := models.NewHomeworkItem(input.Subject, input.DueDate)
	if input.Priority != "" {
		h.WithPriority(models.Priority(input.Priority))
	}
	if input.Description != "" {
		h.WithDescription(input.Description)
	}

	if err := s.app.Repo().CreateHomework(h); err != nil {
		return homeworkOutput{}, "", err
	}

	msg := fmt.Sprintf("Added %s homework due %s (ID: %d)", h.Subject, h.DueDate, h.ID)
	return homeworkOutput{Homework: h, Message: msg}, msg, nil
}

func (s *Server) handleListHomework(ctx context.Context, input listHomeworkInput) (homeworkListOutput, string, error) {
	repo := s.app.Repo()

	var (
		items []*models.HomeworkItem
		err   error
	)
	switch {
	case input.DueBy != "":
		items, err = repo.ListHomeworkDueBy(input.DueBy)
	case input.IncludeCompleted:
		items, err = repo.ListHomework()
	default:
		items, err = repo.ListActiveHomework()
	}
	if err != nil {
		return homeworkListOutput{}, "", err
	}
	if items == nil {
		items = []*models.HomeworkItem{}
	}
	return homeworkListOutput{Homework: items, Count: len(items)}, fmt.Sprintf("Found %d assignments", len(items)), nil
}

func (s *Server) handleGetStats(ctx context.Context, _ emptyInput) (statsOutput, string, error) {
	st, err := s.app.Stats()
	if err != nil {
		return statsOutput{}, "", fmt.Errorf("failed to load stats: %w", err)
	}
	msg := fmt.Sprintf("%d entries, streak %d (longest %d), %d/%d tasks done",
		st.TotalEntries, st.CurrentStreak, st.LongestStreak, st.CompletedTasks, st.TotalTasks)
	return statsOutput{Stats: st}, msg, nil
}

func (s *Server) handleWeeklySummary(ctx context.Context, _ emptyInput) (weeklyOutput, string, error) {
	w, err := s.app.WeeklySummary()
	if err != nil {
		return weeklyOutput{}, "", fmt.Errorf("failed to summarize week: %w", err)
	}
	if w == nil {
		msg := "No entries in the last 7 days."
		return weeklyOutput{Message: msg}, msg, nil
	}
	msg := fmt.Sprintf("%d days logged, average mood %.1f, %s", w.TotalDays, w.AvgMood, w.Trend)
	return weeklyOutput{Summary: w, Message: msg}, msg, nil
}

func (s *Server) handleGetInsights(ctx context.Context, _ emptyInput) (insightsOutput, string, error) {
	narrative, err := s.app.Narrative()
	if err != nil {
		return insightsOutput{}, "", fmt.Errorf("failed to build insights: %w", err)
	}
	tags, err := s.app.TagPatterns()
	if err != nil {
		return insightsOutput{}, "", fmt.Errorf("failed to analyse tags: %w", err)
	}
	if tags == nil {
		tags = []insights.TagPattern{}
	}

	lines := make([]string, 0, len(narrative))
	for _, in := range narrative {
		lines = append(lines, in.Message)
	}
	return insightsOutput{Insights: narrative, Tags: tags}, strings.Join(lines, "\n"), nil
}

func (s *Server) handleMoodForecast(ctx context.Context, _ emptyInput) (forecastOutput, string, error) {
	f, err := s.app.Forecast()
	if err != nil {
		return forecastOutput{}, "", fmt.Errorf("failed to forecast: %w", err)
	}
	if f == nil {
		msg := "Need at least 7 entries to forecast mood."
		return forecastOutput{Message: msg}, msg, nil
	}
	msg := fmt.Sprintf("Tomorrow's mood: %.1f/10 (%s, %d%% confidence)", f.PredictedMood, f.Trend, f.Confidence)
	return forecastOutput{Forecast: f, Message: msg}, msg, nil
}

