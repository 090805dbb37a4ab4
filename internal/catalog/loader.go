package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"podcast-catalog/internal/metadata"
	"podcast-catalog/internal/models"
)

type catalogFile struct {
	Podcasts []podcastEntry `yaml:"podcasts" json:"podcasts" toml:"podcasts"`
}

type podcastEntry struct {
	ID          string         `yaml:"id" json:"id" toml:"id"`
	Title       string         `yaml:"title" json:"title" toml:"title"`
	Description string         `yaml:"description" json:"description" toml:"description"`
	Author      string         `yaml:"author" json:"author" toml:"author"`
	Category    []string       `yaml:"category" json:"category" toml:"category"`
	CoverImage  string         `yaml:"cover_image" json:"cover_image" toml:"cover_image"`
	PublishedAt time.Time      `yaml:"published_at" json:"published_at" toml:"published_at"`
	AudioDir    string         `yaml:"audio_dir" json:"audio_dir" toml:"audio_dir"`
	Episodes    []episodeEntry `yaml:"episodes" json:"episodes" toml:"episodes"`
}

type episodeEntry struct {
	ID          string    `yaml:"id" json:"id" toml:"id"`
	Title       string    `yaml:"title" json:"title" toml:"title"`
	Description string    `yaml:"description" json:"description" toml:"description"`
	Duration    int       `yaml:"duration" json:"duration" toml:"duration"`
	PublishedAt time.Time `yaml:"published_at" json:"published_at" toml:"published_at"`
	AudioURL    string    `yaml:"audio_url" json:"audio_url" toml:"audio_url"`
}

// Load reads every catalog file below root and freezes the result.
func Load(root string, known []string, logger *log.Logger) (*Snapshot, error) {
	podcasts, err := LoadDir(root, logger)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(podcasts, known)
}

// LoadDir walks root in lexical order and decodes every catalog file it
// finds: YAML, JSON and TOML documents with a podcasts list, and RSS feeds.
// Hidden files and directories are skipped. Any bad file fails the load.
func LoadDir(root string, logger *log.Logger) ([]models.Podcast, error) {
	if logger == nil {
		logger = log.Default()
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isCatalogFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	parser := gofeed.NewParser()
	var podcasts []models.Podcast
	for _, file := range files {
		loaded, err := loadFile(file, root, parser)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		logger.Debug("catalog file loaded", "file", file, "podcasts", len(loaded))
		podcasts = append(podcasts, loaded...)
	}

	return podcasts, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml", ".rss", ".xml":
		return true
	}
	return false
}

func isFeedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".rss" || ext == ".xml"
}

func loadFile(path, root string, parser *gofeed.Parser) ([]models.Podcast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isFeedFile(path) {
		feed, err := parser.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return []models.Podcast{podcastFromFeed(id, feed)}, nil
	}

	var doc catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}

	podcasts := make([]models.Podcast, 0, len(doc.Podcasts))
	for _, entry := range doc.Podcasts {
		p, err := entry.toPodcast(filepath.Dir(path), root)
		if err != nil {
			return nil, err
		}
		podcasts = append(podcasts, p)
	}
	return podcasts, nil
}

func (e podcastEntry) toPodcast(dir, root string) (models.Podcast, error) {
	p := models.Podcast{
		ID:          strings.TrimSpace(e.ID),
		Title:       e.Title,
		Description: e.Description,
		Author:      e.Author,
		Category:    e.Category,
		PublishedAt: e.PublishedAt,
		Episodes:    make([]models.Episode, 0, len(e.Episodes)),
	}
	if cover := strings.TrimSpace(e.CoverImage); cover != "" {
		p.CoverImage = &cover
	}

	explicit := make([]string, 0, len(e.Episodes))
	for _, ep := range e.Episodes {
		explicit = append(explicit, ep.ID)
	}
	ids := newEpisodeIDs(explicit)
	for i, ep := range e.Episodes {
		id := strings.TrimSpace(ep.ID)
		if id == "" {
			id = ids.fallback(i + 1)
		}
		p.Episodes = append(p.Episodes, models.Episode{
			ID:              id,
			Title:           ep.Title,
			Description:     ep.Description,
			DurationSeconds: ep.Duration,
			PublishedAt:     ep.PublishedAt,
			AudioURL:        ep.AudioURL,
		})
	}

	if e.AudioDir != "" {
		audio, err := loadAudioDir(filepath.Join(dir, e.AudioDir), root)
		if err != nil {
			return models.Podcast{}, fmt.Errorf("podcast %q: %w", p.ID, err)
		}
		p.Episodes = append(p.Episodes, audio...)
	}

	return p, nil
}

func loadAudioDir(dir, root string) ([]models.Episode, error) {
	if !pathWithinRoot(root, dir) {
		return nil, fmt.Errorf("audio directory %s is outside the catalog root", dir)
	}

	var episodes []models.Episode
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !metadata.IsAudioFile(path) {
			return nil
		}
		episode, err := metadata.BuildEpisode(path, root)
		if err != nil {
			return err
		}
		episodes = append(episodes, episode)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return episodes, nil
}

func pathWithinRoot(root, target string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}
