// Package catalog loads podcast catalogs from disk and serves them as frozen
// snapshots to the query engine.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"podcast-catalog/internal/models"
	"podcast-catalog/internal/query"
)

// ErrDuplicatePodcast marks two podcasts sharing an id.
var ErrDuplicatePodcast = errors.New("duplicate podcast id")

// Snapshot is a validated, immutable catalog. Callers must treat the
// podcasts it hands out as read-only.
type Snapshot struct {
	podcasts   []models.Podcast
	vocabulary *query.Vocabulary
	loadedAt   time.Time
}

// NewSnapshot validates podcasts and freezes a deep copy of them. known is
// the configured category vocabulary; labels found in the catalog are
// appended after it.
func NewSnapshot(podcasts []models.Podcast, known []string) (*Snapshot, error) {
	var errs []error
	seen := make(map[string]struct{}, len(podcasts))
	frozen := make([]models.Podcast, 0, len(podcasts))

	for _, p := range podcasts {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicatePodcast, p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		frozen = append(frozen, p.Clone())
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Snapshot{
		podcasts:   frozen,
		vocabulary: query.MergeVocabulary(known, query.Categories(frozen)),
		loadedAt:   time.Now().UTC(),
	}, nil
}

// Podcasts returns a deep copy of the catalog in load order.
func (s *Snapshot) Podcasts() []models.Podcast {
	if s == nil {
		return []models.Podcast{}
	}
	out := make([]models.Podcast, len(s.podcasts))
	for i, p := range s.podcasts {
		out[i] = p.Clone()
	}
	return out
}

// Podcast returns a deep copy of the podcast with the given id.
func (s *Snapshot) Podcast(id string) (models.Podcast, bool) {
	if s == nil {
		return models.Podcast{}, false
	}
	p, ok := query.FindByID(s.podcasts, id)
	if !ok {
		return models.Podcast{}, false
	}
	return p.Clone(), true
}

// Vocabulary returns the known category labels.
func (s *Snapshot) Vocabulary() *query.Vocabulary {
	if s == nil {
		return query.NewVocabulary()
	}
	return s.vocabulary
}

// Len returns the number of podcasts.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.podcasts)
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}
