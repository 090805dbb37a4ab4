package query

import "podcast-catalog/internal/models"

const secondsPerHour = 3600

// Summary aggregates a list of podcasts. All values are exact integers.
type Summary struct {
	Count                int `json:"count"`
	EpisodeCount         int `json:"episode_count"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
	CategoryCount        int `json:"category_count"`
}

// Hours converts the total duration to whole hours, rounding half up.
func (s Summary) Hours() int {
	return (s.TotalDurationSeconds + secondsPerHour/2) / secondsPerHour
}

// CategorySummary counts the podcasts and episodes carrying one label.
type CategorySummary struct {
	Category     string `json:"category"`
	PodcastCount int    `json:"podcast_count"`
	EpisodeCount int    `json:"episode_count"`
}

// Stats sums podcasts, episodes and durations over podcasts. CategoryCount is
// the number of distinct labels among them.
func Stats(podcasts []models.Podcast) Summary {
	var summary Summary
	seen := make(map[string]struct{})
	for _, p := range podcasts {
		summary.Count++
		summary.EpisodeCount += len(p.Episodes)
		for _, ep := range p.Episodes {
			summary.TotalDurationSeconds += ep.DurationSeconds
		}
		for _, c := range p.Category {
			seen[c] = struct{}{}
		}
	}
	summary.CategoryCount = len(seen)
	return summary
}

// CategoryStats counts podcasts labelled category and their episodes. The
// result matches Stats(Filter(catalog, "", NewCategorySet(category))).
func CategoryStats(catalog []models.Podcast, category string) CategorySummary {
	summary := CategorySummary{Category: category}
	for _, p := range catalog {
		if !p.HasCategory(category) {
			continue
		}
		summary.PodcastCount++
		summary.EpisodeCount += len(p.Episodes)
	}
	return summary
}

// AllCategoryStats returns CategoryStats for every label of vocabulary, in
// vocabulary order.
func AllCategoryStats(catalog []models.Podcast, vocabulary []string) []CategorySummary {
	out := make([]CategorySummary, 0, len(vocabulary))
	for _, category := range vocabulary {
		out = append(out, CategoryStats(catalog, category))
	}
	return out
}

// Categories derives the union of all labels in first-occurrence order.
func Categories(catalog []models.Podcast) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range catalog {
		for _, c := range p.Category {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
