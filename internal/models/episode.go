package models

import (
	"fmt"
	"strings"
	"time"
)

// Episode represents a single installment of a podcast.
type Episode struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationSeconds int       `json:"duration"`
	PublishedAt     time.Time `json:"published_at"`
	AudioURL        string    `json:"audio_url,omitempty"`
	BitrateKbps     *int      `json:"bitrate_kbps,omitempty"`
	FilesizeBytes   int64     `json:"filesize_bytes,omitempty"`
}

// Validate reports whether the episode satisfies the catalog rules.
func (e Episode) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEpisode)
	}
	if e.DurationSeconds < 0 {
		return fmt.Errorf("%w: episode %q has negative duration %d", ErrInvalidEpisode, e.ID, e.DurationSeconds)
	}
	return nil
}
