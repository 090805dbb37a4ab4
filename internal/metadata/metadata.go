// Package metadata turns local audio files into catalog episodes.
package metadata

import (
	"errors"
	"io"
	"math"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"podcast-catalog/internal/models"
)

// AudioPrefix is the URL path under which audio files are served.
const AudioPrefix = "/audio/"

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".aac":  {},
	".wav":  {},
	".flac": {},
	".ogg":  {},
}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Tags holds the descriptive fields read from an audio file.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// BuildEpisode builds an episode for the audio file at path. root is the
// directory audio URLs are relative to.
func BuildEpisode(path string, root string) (models.Episode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Episode{}, err
	}

	relative, err := filepath.Rel(root, path)
	if err != nil {
		relative = filepath.Base(path)
	}
	relative = filepath.ToSlash(relative)

	tags := ReadTags(path)
	title := tags.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	episode := models.Episode{
		ID:            relative,
		Title:         title,
		Description:   describe(tags),
		PublishedAt:   info.ModTime().UTC().Round(time.Second),
		AudioURL:      AudioPrefix + strings.TrimLeft(pathpkg.Clean(relative), "/"),
		FilesizeBytes: info.Size(),
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		dur, err := computeMP3Duration(path)
		if err == nil && dur > 0 {
			episode.DurationSeconds = int(math.Round(dur))

			bitrate := int(math.Round((float64(info.Size()) * 8) / dur / 1000))
			if bitrate > 0 {
				episode.BitrateKbps = &bitrate
			}
		}
	}

	return episode, nil
}

// ReadTags returns the trimmed tag fields of the file, empty when the file
// has no readable tags.
func ReadTags(path string) Tags {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}
	}

	return Tags{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
		Album:  strings.TrimSpace(meta.Album()),
	}
}

func describe(tags Tags) string {
	parts := make([]string, 0, 2)
	if tags.Artist != "" {
		parts = append(parts, tags.Artist)
	}
	if tags.Album != "" {
		parts = append(parts, tags.Album)
	}
	return strings.Join(parts, " - ")
}

func computeMP3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}
