// ABOUTME: Tag pattern analysis: how often each tag appears and its mean mood.
// ABOUTME: Tags seen at least twice are classified as positive or negative.
package insights

import (
	"sort"

	"github.com/harperreed/daybook/internal/models"
)

// Association classifies a tag's relationship with mood.
type Association string

const (
	AssociationPositive Association = "positive"
	AssociationNegative Association = "negative"
	AssociationNeutral  Association = "neutral"
)

const (
	minTagCount     = 2
	positiveTagMood = 7.0
	negativeTagMood = 5.0
)

// TagPattern is one tag's occurrence count and mean mood.
type TagPattern struct {
	Tag         string      `json:"tag"`
	Count       int         `json:"count"`
	AvgMood     float64     `json:"avgMood"`
	Association Association `json:"association"`
}

// TagPatterns returns one pattern per tag, most frequent first and ties by
// tag name.
func TagPatterns(entries []*models.JournalEntry) []TagPattern {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, e := range entries {
		for _, tag := range models.NormalizeTags(e.Tags) {
			counts[tag]++
			sums[tag] += float64(e.Mood)
		}
	}

	patterns := make([]TagPattern, 0, len(counts))
	for tag, n := range counts {
		avg := sums[tag] / float64(n)
		patterns = append(patterns, TagPattern{
			Tag:         tag,
			Count:       n,
			AvgMood:     round1(avg),
			Association: classifyTag(n, avg),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Tag < patterns[j].Tag
	})
	return patterns
}

func classifyTag(count int, avg float64) Association {
	if count < minTagCount {
		return AssociationNeutral
	}
	switch {
	case avg >= positiveTagMood:
		return AssociationPositive
	case avg < negativeTagMood:
		return AssociationNegative
	}
	return AssociationNeutral
}

// tagShare returns the fraction of entries carrying tag.
func tagShare(entries []*models.JournalEntry, tag string) float64 {
	if len(entries) == 0 {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.HasTag(tag) {
			n++
		}
	}
	return float64(n) / float64(len(entries))
}
