package query

import (
	"sort"

	"podcast-catalog/internal/models"
)

// CategorySet is a set of exact category labels.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from labels. Empty labels are ignored.
func NewCategorySet(labels ...string) CategorySet {
	set := make(CategorySet, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		set[label] = struct{}{}
	}
	return set
}

// Has reports whether label is in the set.
func (s CategorySet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Len returns the number of labels.
func (s CategorySet) Len() int {
	return len(s)
}

// Labels returns the labels sorted lexically.
func (s CategorySet) Labels() []string {
	out := make([]string, 0, len(s))
	for label := range s {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Intersects reports whether any of labels is in the set.
func (s CategorySet) Intersects(labels []string) bool {
	for _, label := range labels {
		if s.Has(label) {
			return true
		}
	}
	return false
}

// FilterState is the caller-owned combination of a free-text query and a
// category selection.
type FilterState struct {
	Query      string
	Categories CategorySet
}

// IsEmpty reports whether neither dimension filters anything.
func (f FilterState) IsEmpty() bool {
	return f.Query == "" && f.Categories.Len() == 0
}

// Apply runs Filter with this state.
func (f FilterState) Apply(catalog []models.Podcast) []models.Podcast {
	return Filter(catalog, f.Query, f.Categories)
}

// Filter returns the podcasts matching query and selected, in catalog order.
//
// A non-empty query keeps podcasts whose title, description, author or any
// category contains it, ignoring case. A non-empty selection keeps podcasts
// carrying at least one selected label. Both conditions must hold. An empty
// query or selection does not filter that dimension.
func Filter(catalog []models.Podcast, query string, selected CategorySet) []models.Podcast {
	needle := Normalize(query)

	result := make([]models.Podcast, 0, len(catalog))
	for _, p := range catalog {
		if query != "" && !MatchesText(p, needle) {
			continue
		}
		if selected.Len() > 0 && !selected.Intersects(p.Category) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// MatchesText reports whether an already normalized needle occurs in any
// searchable field of p.
func MatchesText(p models.Podcast, normalizedNeedle string) bool {
	if containsNormalized(p.Title, normalizedNeedle) ||
		containsNormalized(p.Description, normalizedNeedle) ||
		containsNormalized(p.Author, normalizedNeedle) {
		return true
	}
	for _, c := range p.Category {
		if containsNormalized(c, normalizedNeedle) {
			return true
		}
	}
	return false
}

// FindByID returns the podcast with the given id.
func FindByID(catalog []models.Podcast, id string) (models.Podcast, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			return catalog[i], true
		}
	}
	return models.Podcast{}, false
}
