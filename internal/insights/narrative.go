// ABOUTME: Narrative insights: a fixed, ordered rule list over journal entries.
// ABOUTME: Each rule appends at most one insight; all rules may fire.
package insights

import (
	"fmt"

	"github.com/harperreed/daybook/internal/models"
)

// Kind is the tone of an insight.
type Kind string

const (
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindInfo     Kind = "info"
	KindTip      Kind = "tip"
)

// Insight is one narrative observation.
type Insight struct {
	Type    Kind   `json:"type"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

const (
	minNarrativeEntries = 3
	lowSleepHours       = 7.0
	goodSleepHours      = 8.0
	sleepMoodLink       = 0.5
	lowEnergy           = 40.0
	outdoorsMinShare    = 0.3
	stressedMaxShare    = 0.4
)

type rule func(entries []*models.JournalEntry) *Insight

var narrativeRules = []rule{
	sleepRule,
	sleepMoodRule,
	energyRule,
	trendRule,
	topPositiveTagRule,
	topNegativeTagRule,
	outdoorsRule,
	exerciseRule,
	stressRule,
}

// Narrative evaluates every rule in order. Fewer than three entries yields a
// single placeholder insight.
func Narrative(entries []*models.JournalEntry) []Insight {
	if len(entries) < minNarrativeEntries {
		return []Insight{{
			Type:    KindInfo,
			Icon:    "📝",
			Message: fmt.Sprintf("Log at least %d days to unlock insights.", minNarrativeEntries),
		}}
	}

	out := []Insight{}
	for _, r := range narrativeRules {
		if in := r(entries); in != nil {
			out = append(out, *in)
		}
	}
	return out
}

func sleepRule(entries []*models.JournalEntry) *Insight {
	avg := Average(entries, FieldSleepHours)
	switch {
	case avg < lowSleepHours:
		return &Insight{KindWarning, "😴", fmt.Sprintf("You're averaging %.1f hours of sleep. Aim for at least 7 hours.", avg)}
	case avg >= goodSleepHours:
		return &Insight{KindPositive, "🌙", fmt.Sprintf("Great sleep habits: %.1f hours on average.", avg)}
	}
	return nil
}

func sleepMoodRule(entries []*models.JournalEntry) *Insight {
	r := Correlation(entries, FieldSleepHours, FieldMood)
	if r > sleepMoodLink {
		return &Insight{KindInfo, "🔗", fmt.Sprintf("More sleep goes with a better mood for you (r = %.2f).", r)}
	}
	return nil
}

func energyRule(entries []*models.JournalEntry) *Insight {
	avg := Average(entries, FieldEnergy)
	if avg < lowEnergy {
		return &Insight{KindWarning, "🔋", fmt.Sprintf("Energy has been low (%.0f/100 on average).", avg)}
	}
	return nil
}

func trendRule(entries []*models.JournalEntry) *Insight {
	switch MoodTrend(entries) {
	case TrendImproving:
		return &Insight{KindPositive, "📈", "Your mood has been improving."}
	case TrendDeclining:
		return &Insight{KindWarning, "📉", "Your mood has been declining lately."}
	}
	return nil
}

func topPositiveTagRule(entries []*models.JournalEntry) *Insight {
	for _, p := range TagPatterns(entries) {
		if p.Association == AssociationPositive {
			return &Insight{KindPositive, "✨", fmt.Sprintf("Days tagged %q average a mood of %.1f.", p.Tag, p.AvgMood)}
		}
	}
	return nil
}

func topNegativeTagRule(entries []*models.JournalEntry) *Insight {
	for _, p := range TagPatterns(entries) {
		if p.Association == AssociationNegative {
			return &Insight{KindWarning, "⚠️", fmt.Sprintf("Days tagged %q average a mood of only %.1f.", p.Tag, p.AvgMood)}
		}
	}
	return nil
}

func outdoorsRule(entries []*models.JournalEntry) *Insight {
	share := tagShare(entries, models.TagOutdoors)
	if share < outdoorsMinShare {
		return &Insight{KindTip, "🌳", fmt.Sprintf("You spent time outdoors on %.0f%% of days. Try getting outside more often.", share*100)}
	}
	return nil
}

func exerciseRule(entries []*models.JournalEntry) *Insight {
	var with, without []*models.JournalEntry
	for _, e := range entries {
		if e.HasTag(models.TagExercised) {
			with = append(with, e)
		} else {
			without = append(without, e)
		}
	}
	if len(with) == 0 || len(without) == 0 {
		return nil
	}

	moodWith := Average(with, FieldMood)
	moodWithout := Average(without, FieldMood)
	if moodWith > moodWithout {
		return &Insight{KindPositive, "🏃", fmt.Sprintf("Mood averages %.1f on exercise days vs %.1f without.", moodWith, moodWithout)}
	}
	return nil
}

func stressRule(entries []*models.JournalEntry) *Insight {
	share := tagShare(entries, models.TagStressed)
	if share > stressedMaxShare {
		return &Insight{KindWarning, "🧘", fmt.Sprintf("You felt stressed on %.0f%% of days. Consider building in breaks.", share*100)}
	}
	return nil
}
