// ABOUTME: Correlates daily task completion rate with mood.
// ABOUTME: Tasks count toward the calendar day they were created.
package insights

import (
	"fmt"

	"github.com/harperreed/daybook/internal/models"
)

const (
	minTaskMoodDays  = 3
	taskMoodPositive = 0.5
	taskMoodNegative = -0.3
	overloadFactor   = 1.5
	overloadMoodDrop = 1.0
)

// TaskMood is the result of TaskMoodCorrelation.
type TaskMood struct {
	Correlation  float64   `json:"correlation"`
	Days         int       `json:"days"`
	AvgTasks     float64   `json:"avgTasks"`
	OverloadDays []string  `json:"overloadDays"`
	Insights     []Insight `json:"insights"`
}

// TaskMoodCorrelation joins tasks to entries by creation day and relates the
// share of that day's tasks that were completed to mood. Overload days are
// judged on the raw task count. It returns nil when fewer than three days have
// both an entry and at least one task.
func TaskMoodCorrelation(entries []*models.JournalEntry, tasks []*models.Task) *TaskMood {
	type tally struct{ created, completed int }
	perDay := make(map[string]*tally)
	for _, t := range tasks {
		key := models.FormatDate(t.CreatedAt.UTC())
		c, ok := perDay[key]
		if !ok {
			c = &tally{}
			perDay[key] = c
		}
		c.created++
		if t.Completed {
			c.completed++
		}
	}

	type day struct {
		date  string
		tasks float64
		rate  float64
		mood  float64
	}
	var days []day
	for _, e := range sortAscending(entries) {
		c, ok := perDay[e.Date]
		if !ok || c.created == 0 {
			continue
		}
		days = append(days, day{
			date:  e.Date,
			tasks: float64(c.created),
			rate:  float64(c.completed) / float64(c.created),
			mood:  float64(e.Mood),
		})
	}
	if len(days) < minTaskMoodDays {
		return nil
	}

	var sumTasks, sumMood float64
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i], ys[i] = d.rate, d.mood
		sumTasks += d.tasks
		sumMood += d.mood
	}
	avgTasks := sumTasks / float64(len(days))
	avgMood := sumMood / float64(len(days))

	out := &TaskMood{
		Correlation:  round2(pearson(xs, ys)),
		Days:         len(days),
		AvgTasks:     round1(avgTasks),
		OverloadDays: []string{},
		Insights:     []Insight{},
	}

	switch {
	case out.Correlation > taskMoodPositive:
		out.Insights = append(out.Insights, Insight{KindPositive, "✅", "Days when you finish more of your tasks tend to be good days."})
	case out.Correlation < taskMoodNegative:
		out.Insights = append(out.Insights, Insight{KindWarning, "📋", "Your mood dips on days you push through your whole list. Leave room to rest."})
	}

	for _, d := range days {
		if d.tasks > overloadFactor*avgTasks && d.mood < avgMood-overloadMoodDrop {
			out.OverloadDays = append(out.OverloadDays, d.date)
		}
	}
	if len(out.OverloadDays) > 0 {
		out.Insights = append(out.Insights, Insight{KindTip, "⚖️",
			fmt.Sprintf("Heavy days (over %.0f tasks) brought your mood down %d time(s). Try spreading work out.",
				overloadFactor*avgTasks, len(out.OverloadDays))})
	}
	return out
}
