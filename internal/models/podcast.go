package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidPodcast marks a podcast that breaks the catalog rules.
	ErrInvalidPodcast = errors.New("invalid podcast")
	// ErrInvalidEpisode marks an episode that breaks the catalog rules.
	ErrInvalidEpisode = errors.New("invalid episode")
)

// Podcast is a program in the catalog together with its ordered episodes.
type Podcast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Category    []string  `json:"category"`
	CoverImage  *string   `json:"cover_image,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Episodes    []Episode `json:"episodes"`
}

// HasCategory reports whether the podcast is labelled with the exact category.
func (p Podcast) HasCategory(category string) bool {
	for _, c := range p.Category {
		if c == category {
			return true
		}
	}
	return false
}

// Validate checks the podcast and every owned episode. All problems are
// reported together.
func (p Podcast) Validate() error {
	var errs []error

	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, fmt.Errorf("%w: missing id (title %q)", ErrInvalidPodcast, p.Title))
	}
	if len(p.Category) == 0 {
		errs = append(errs, fmt.Errorf("%w: podcast %q has no category", ErrInvalidPodcast, p.ID))
	}
	for _, c := range p.Category {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, fmt.Errorf("%w: podcast %q has an empty category label", ErrInvalidPodcast, p.ID))
			break
		}
	}

	seen := make(map[string]struct{}, len(p.Episodes))
	for _, ep := range p.Episodes {
		if err := ep.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("podcast %q: %w", p.ID, err))
			continue
		}
		if _, dup := seen[ep.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: podcast %q repeats episode id %q", ErrInvalidEpisode, p.ID, ep.ID))
			continue
		}
		seen[ep.ID] = struct{}{}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy so callers cannot alter a shared snapshot.
func (p Podcast) Clone() Podcast {
	out := p
	if p.Category != nil {
		out.Category = append([]string(nil), p.Category...)
	}
	if p.CoverImage != nil {
		cover := *p.CoverImage
		out.CoverImage = &cover
	}
	if p.Episodes != nil {
		out.Episodes = make([]Episode, len(p.Episodes))
		for i, ep := range p.Episodes {
			if ep.BitrateKbps != nil {
				bitrate := *ep.BitrateKbps
				ep.BitrateKbps = &bitrate
			}
			out.Episodes[i] = ep
		}
	}
	return out
}
