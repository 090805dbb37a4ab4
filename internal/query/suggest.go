package query

import (
	"unicode/utf8"

	"podcast-catalog/internal/models"
)

const (
	// DefaultSuggestionLimit caps Suggest when no positive limit is given.
	DefaultSuggestionLimit = 5
	// MinSuggestionLength is the shortest partial query that yields suggestions.
	MinSuggestionLength = 2
)

// Suggest returns distinct catalog fragments containing partial, ignoring
// case. Candidates are every podcast's title, description, author and
// categories in catalog order; the first occurrence of a string wins and the
// list stops at maxResults (DefaultSuggestionLimit when maxResults <= 0).
//
// Suggestions always come from the whole catalog, never from filter results.
func Suggest(catalog []models.Podcast, partial string, maxResults int) []string {
	if utf8.RuneCountInString(partial) < MinSuggestionLength {
		return []string{}
	}
	if maxResults <= 0 {
		maxResults = DefaultSuggestionLimit
	}

	needle := Normalize(partial)
	seen := make(map[string]struct{})
	out := make([]string, 0, maxResults)

	add := func(candidate string) bool {
		if _, dup := seen[candidate]; dup {
			return false
		}
		if !containsNormalized(candidate, needle) {
			return false
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
		return len(out) == maxResults
	}

	for _, p := range catalog {
		if add(p.Title) || add(p.Description) || add(p.Author) {
			return out
		}
		for _, c := range p.Category {
			if add(c) {
				return out
			}
		}
	}
	return out
}
