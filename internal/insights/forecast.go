// ABOUTME: Mood forecast from a least-squares fit over recent entries.
// ABOUTME: Adds fixed sleep and energy adjustments and clamps to the mood scale.
package insights

import (
	"math"

	"github.com/harperreed/daybook/internal/models"
)

const (
	minForecastEntries = 7
	maxForecastEntries = 14
	forecastTrendBand  = 0.5
	maxConfidence      = 95
	minMood            = 1.0
	maxMood            = 10.0
)

// Factor is one adjustment applied to the fitted prediction.
type Factor struct {
	Name   string  `json:"name"`
	Impact float64 `json:"impact"`
}

// Forecast is the predicted mood for the next day.
type Forecast struct {
	PredictedMood   float64  `json:"predictedMood"`
	CurrentMood     int      `json:"currentMood"`
	Trend           Trend    `json:"trend"`
	Confidence      int      `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	Factors         []Factor `json:"factors"`
	SampleSize      int      `json:"sampleSize"`
}

// MoodForecast fits mood against position in the newest-first sample of up to
// 14 entries (index 0 is the most recent) and evaluates the line at index n.
// It returns nil for fewer than seven entries.
func MoodForecast(entries []*models.JournalEntry) *Forecast {
	if len(entries) < minForecastEntries {
		return nil
	}
	sample := sortDescending(entries)
	if len(sample) > maxForecastEntries {
		sample = sample[:maxForecastEntries]
	}
	n := len(sample)

	slope, intercept := leastSquares(sample)
	predicted := slope*float64(n) + intercept

	f := &Forecast{
		CurrentMood:     sample[0].Mood,
		Recommendations: []string{},
		Factors:         []Factor{},
		SampleSize:      n,
	}

	sleep := Average(sample, FieldSleepHours)
	switch {
	case sleep < lowSleepHours:
		f.Factors = append(f.Factors, Factor{Name: "sleep", Impact: -0.5})
		f.Recommendations = append(f.Recommendations, "Aim for at least 7 hours of sleep tonight.")
	case sleep >= goodSleepHours:
		f.Factors = append(f.Factors, Factor{Name: "sleep", Impact: 0.3})
	}

	energy := Average(sample, FieldEnergy)
	switch {
	case energy < lowEnergy:
		f.Factors = append(f.Factors, Factor{Name: "energy", Impact: -0.5})
		f.Recommendations = append(f.Recommendations, "Plan something restorative; your energy has been low.")
	case energy >= 70:
		f.Factors = append(f.Factors, Factor{Name: "energy", Impact: 0.3})
	}

	for _, factor := range f.Factors {
		predicted += factor.Impact
	}
	f.PredictedMood = round1(math.Max(minMood, math.Min(maxMood, predicted)))

	diff := f.PredictedMood - float64(f.CurrentMood)
	switch {
	case diff > forecastTrendBand:
		f.Trend = TrendImproving
	case diff < -forecastTrendBand:
		f.Trend = TrendDeclining
		f.Recommendations = append(f.Recommendations, "Schedule something you enjoy to lift your mood.")
	default:
		f.Trend = TrendStable
	}

	f.Confidence = min(maxConfidence, 50+3*n)
	if len(f.Recommendations) == 0 {
		f.Recommendations = append(f.Recommendations, "Keep up your current routine.")
	}
	return f
}

// leastSquares fits mood = slope*index + intercept.
func leastSquares(sample []*models.JournalEntry) (slope, intercept float64) {
	n := float64(len(sample))
	var sumX, sumY, sumXY, sumXX float64
	for i, e := range sample {
		x := float64(i)
		y := float64(e.Mood)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
