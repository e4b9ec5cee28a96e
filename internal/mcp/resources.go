// ABOUTME: MCP resource implementations for the daybook store.
// ABOUTME: Provides daybook://today and daybook://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/daybook/internal/insights"
	"github.com/harperreed/daybook/internal/models"
	"github.com/harperreed/daybook/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "daybook://today"
	summaryURI = "daybook://summary"

	homeworkHorizonDays = 7
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today",
		Description: "Today's entry, class schedule, open tasks and homework due this week",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Daybook Summary",
		Description: "Streaks, weekly summary, mood forecast and AI usage",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

type todayView struct {
	Date      string                 `json:"date"`
	Entry     *models.JournalEntry   `json:"entry"`
	Schedule  []*models.ScheduleItem `json:"schedule"`
	Tasks     []*models.Task         `json:"tasks"`
	Homework  []*models.HomeworkItem `json:"homework"`
	DayOfWeek int                    `json:"dayOfWeek"`
}

type summaryView struct {
	Stats    *models.UserStats       `json:"stats"`
	Weekly   *insights.WeeklySummary `json:"weekly"`
	Forecast *insights.Forecast      `json:"forecast"`
	AIUsage  models.AIUsage          `json:"aiUsage"`
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	repo := s.app.Repo()
	today := s.app.Today()

	day, err := models.ParseDate(today)
	if err != nil {
		return nil, err
	}
	view := todayView{Date: today, DayOfWeek: models.IsoWeekday(day)}

	view.Entry, err = repo.GetEntryByDate(today)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load today's entry: %w", err)
	}

	if view.Schedule, err = repo.ListScheduleByDay(view.DayOfWeek); err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	list, open := models.ListToday, false
	if view.Tasks, err = repo.ListTasks(models.TaskFilter{List: &list, Completed: &open}); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	horizon, err := models.AddDays(today, homeworkHorizonDays)
	if err != nil {
		return nil, err
	}
	if view.Homework, err = repo.ListHomeworkDueBy(horizon); err != nil {
		return nil, fmt.Errorf("failed to load homework: %w", err)
	}

	return jsonResource(todayURI, view)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var view summaryView
	var err error

	if view.Stats, err = s.app.Stats(); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if view.Weekly, err = s.app.WeeklySummary(); err != nil {
		return nil, fmt.Errorf("failed to summarize week: %w", err)
	}
	if view.Forecast, err = s.app.Forecast(); err != nil {
		return nil, fmt.Errorf("failed to forecast: %w", err)
	}

	settings, err := s.app.Repo().GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	view.AIUsage = settings.AIUsage

	return jsonResource(summaryURI, view)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
