// ABOUTME: CLI commands for derived insights.
// ABOUTME: Narrative observations, weekly summary, tag patterns, forecast and correlations.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/daybook/internal/insights"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"i"},
	Short:   "What your journal says",
	Long: `Show narrative observations from the last 30 days of entries.

SUBCOMMANDS:

  weekly        averages and trend for the last 7 days
  tags          how each tag relates to mood
  forecast      tomorrow's predicted mood
  correlation   Pearson's r between two fields
  tasks         how finishing your tasks relates to mood`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := daybook.Narrative()
		if err != nil {
			return err
		}
		for _, in := range list {
			printInsight(in)
		}
		return nil
	},
}

var insightsWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Summarize the last 7 days",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := daybook.WeeklySummary()
		if err != nil {
			return err
		}
		if w == nil {
			fmt.Println("No entries in the last 7 days.")
			return nil
		}

		fmt.Printf("Days logged:    %d\n", w.TotalDays)
		fmt.Printf("Average mood:   %.1f/10 (%s)\n", w.AvgMood, trendText(w.Trend))
		fmt.Printf("Average energy: %.1f\n", w.AvgEnergy)
		fmt.Printf("Average sleep:  %.1fh (quality %.1f/5)\n", w.AvgSleep, w.AvgSleepQuality)
		fmt.Printf("Good days:      %d\n", w.GoodDays)
		return nil
	},
}

var insightsTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show how tags relate to mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns, err := daybook.TagPatterns()
		if err != nil {
			return err
		}
		if len(patterns) == 0 {
			fmt.Println("No tagged entries yet.")
			return nil
		}

		for _, p := range patterns {
			assoc := string(p.Association)
			switch p.Association {
			case insights.AssociationPositive:
				assoc = color.GreenString("%s", assoc)
			case insights.AssociationNegative:
				assoc = color.RedString("%s", assoc)
			default:
				assoc = faint.Sprint(assoc)
			}
			fmt.Printf("%s %3dx  avg mood %4.1f  %s\n", padRight(p.Tag, 16), p.Count, p.AvgMood, assoc)
		}
		return nil
	},
}

var insightsForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict tomorrow's mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := daybook.Forecast()
		if err != nil {
			return err
		}
		if f == nil {
			fmt.Println("Log at least 7 days to get a forecast.")
			return nil
		}

		fmt.Printf("Tomorrow:   %.1f/10 (today %d, %s)\n", f.PredictedMood, f.CurrentMood, trendText(f.Trend))
		fmt.Printf("Confidence: %d%% from %d entries\n", f.Confidence, f.SampleSize)
		for _, factor := range f.Factors {
			fmt.Printf("  %s %+.1f\n", padRight(factor.Name, 12), factor.Impact)
		}
		for _, r := range f.Recommendations {
			fmt.Printf("  • %s\n", r)
		}
		return nil
	},
}

var insightsCorrelationCmd = &cobra.Command{
	Use:   "correlation <field> <field>",
	Short: "Correlate two fields over the last 30 days",
	Long: `Compute Pearson's r between two numeric fields over the last 30 days.

Fields: mood, energy, sleepHours, sleepQuality

Examples:
  daybook insights correlation sleepHours mood`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			if !insights.IsValidField(a) {
				return usageErr("unknown field %q (use mood, energy, sleepHours or sleepQuality)", a)
			}
		}

		r, n, err := daybook.Correlation(insights.Field(args[0]), insights.Field(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("r = %+.2f over %d entries (%s)\n", r, n, strength(r, n))
		return nil
	},
}

var insightsTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Relate daily task completion to mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, err := daybook.TaskMood()
		if err != nil {
			return err
		}
		if tm == nil {
			fmt.Println("Need at least 3 days with both an entry and a task.")
			return nil
		}

		fmt.Printf("r = %+.2f over %d days, %.1f tasks a day\n", tm.Correlation, tm.Days, tm.AvgTasks)
		if len(tm.OverloadDays) > 0 {
			fmt.Printf("Heavy days: %s\n", strings.Join(tm.OverloadDays, ", "))
		}
		for _, in := range tm.Insights {
			printInsight(in)
		}
		return nil
	},
}

func printInsight(in insights.Insight) {
	msg := in.Message
	switch in.Type {
	case insights.KindPositive:
		msg = color.GreenString("%s", msg)
	case insights.KindWarning:
		msg = color.YellowString("%s", msg)
	}
	fmt.Printf("%s %s\n", in.Icon, msg)
}

func trendText(t insights.Trend) string {
	switch t {
	case insights.TrendImproving:
		return color.GreenString("improving")
	case insights.TrendDeclining:
		return color.RedString("declining")
	}
	return string(t)
}

func strength(r float64, n int) string {
	if n < 5 {
		return "not enough data"
	}
	a := r
	if a < 0 {
		a = -a
	}
	switch {
	case a >= 0.7:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.2:
		return "weak"
	}
	return "none"
}

func init() {
	insightsCmd.AddCommand(insightsWeeklyCmd, insightsTagsCmd, insightsForecastCmd, insightsCorrelationCmd, insightsTasksCmd)
	rootCmd.AddCommand(insightsCmd)
}
