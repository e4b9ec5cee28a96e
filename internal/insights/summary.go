// ABOUTME: Pure aggregate computations over journal entries.
// ABOUTME: Averages, Pearson correlation, trend split and the weekly summary.
package insights

import (
	"math"
	"sort"

	"github.com/harperreed/daybook/internal/models"
)

// Trend classifies the direction of mood over a window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Field names a numeric JournalEntry field.
type Field string

const (
	FieldMood         Field = "mood"
	FieldEnergy       Field = "energy"
	FieldSleepHours   Field = "sleepHours"
	FieldSleepQuality Field = "sleepQuality"
)

// Fields lists every numeric field.
var Fields = []Field{FieldMood, FieldEnergy, FieldSleepHours, FieldSleepQuality}

// IsValidField reports whether s names a numeric field.
func IsValidField(s string) bool {
	for _, f := range Fields {
		if string(f) == s {
			return true
		}
	}
	return false
}

func (f Field) value(e *models.JournalEntry) float64 {
	switch f {
	case FieldMood:
		return float64(e.Mood)
	case FieldEnergy:
		return float64(e.Energy)
	case FieldSleepHours:
		return e.SleepHours
	case FieldSleepQuality:
		return float64(e.SleepQuality)
	}
	return 0
}

const (
	goodDayMood      = 7
	minTrendEntries  = 3
	trendThreshold   = 1.0
	minCorrelationN  = 5
	weeklyWindowDays = 7
)

// WeeklySummary aggregates the last seven calendar days.
type WeeklySummary struct {
	AvgMood         float64 `json:"avgMood"`
	AvgSleep        float64 `json:"avgSleep"`
	AvgEnergy       float64 `json:"avgEnergy"`
	AvgSleepQuality float64 `json:"avgSleepQuality"`
	GoodDays        int     `json:"goodDays"`
	TotalDays       int     `json:"totalDays"`
	Trend           Trend   `json:"trend"`
}

// Average returns the mean of field over entries rounded to one decimal, 0
// for none.
func Average(entries []*models.JournalEntry, field Field) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += field.value(e)
	}
	return round1(sum / float64(len(entries)))
}

// Correlation returns Pearson's r between two fields. It is 0 for fewer than
// five entries or when either field is constant.
func Correlation(entries []*models.JournalEntry, a, b Field) float64 {
	if len(entries) < minCorrelationN {
		return 0
	}
	xs := make([]float64, len(entries))
	ys := make([]float64, len(entries))
	for i, e := range entries {
		xs[i] = a.value(e)
		ys[i] = b.value(e)
	}
	return pearson(xs, ys)
}

// pearson returns r clamped to [-1, 1], or 0 when either series is constant.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r))
}

// Window returns entries dated within the days calendar days ending today,
// oldest first.
func Window(entries []*models.JournalEntry, today string, days int) []*models.JournalEntry {
	from, err := models.AddDays(today, -(days - 1))
	if err != nil {
		return nil
	}
	out := make([]*models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= from && e.Date <= today {
			out = append(out, e)
		}
	}
	return sortAscending(out)
}

// MoodTrend compares the mean mood of the later half of the date-ordered
// entries with the earlier half. With an odd count the middle entry belongs
// to the later half.
func MoodTrend(entries []*models.JournalEntry) Trend {
	if len(entries) < minTrendEntries {
		return TrendStable
	}
	sorted := sortAscending(entries)
	half := len(sorted) / 2
	diff := Average(sorted[half:], FieldMood) - Average(sorted[:half], FieldMood)
	switch {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	}
	return TrendStable
}

// Weekly summarizes the seven days ending today. It returns nil when the
// window holds no entries.
func Weekly(entries []*models.JournalEntry, today string) *WeeklySummary {
	week := Window(entries, today, weeklyWindowDays)
	if len(week) == 0 {
		return nil
	}

	s := &WeeklySummary{
		AvgMood:         Average(week, FieldMood),
		AvgSleep:        Average(week, FieldSleepHours),
		AvgEnergy:       Average(week, FieldEnergy),
		AvgSleepQuality: Average(week, FieldSleepQuality),
		TotalDays:       len(week),
		Trend:           MoodTrend(week),
	}
	for _, e := range week {
		if e.Mood >= goodDayMood {
			s.GoodDays++
		}
	}
	return s
}

func sortAscending(entries []*models.JournalEntry) []*models.JournalEntry {
	out := append([]*models.JournalEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func sortDescending(entries []*models.JournalEntry) []*models.JournalEntry {
	out := append([]*models.JournalEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
