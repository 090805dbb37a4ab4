package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr        = "127.0.0.1:8080"
	defaultRefreshDebounceMS = 500
	defaultSuggestionLimit   = 5
	defaultSiteTitle         = "Podcast Lernplattform"
	defaultSiteDescription   = "Lerne spielerisch mit modernen Podcasts"
	defaultSiteLanguage      = "de"
)

// ResolveCatalogDir returns the directory holding catalog files. An explicit
// override (e.g. a CLI flag) wins over PODCAST_CATALOG_DIR. The directory is
// not created; see EnsureCatalogDir.
func ResolveCatalogDir(override string) (string, error) {
	dir := strings.TrimSpace(override)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv("PODCAST_CATALOG_DIR"))
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, "catalog")
	}

	return expandPath(dir)
}

// EnsureCatalogDir creates dir when it does not yet exist. Only the server
// calls it so that a mistyped path fails the query commands.
func EnsureCatalogDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// ListenAddr returns the TCP address the HTTP server should bind to.
func ListenAddr() string {
	addr := strings.TrimSpace(os.Getenv("PODCAST_LISTEN_ADDR"))
	if addr == "" {
		return defaultListenAddr
	}
	return addr
}

// ValidateListenAddr ensures the configured listen address is restricted to localhost.
func ValidateListenAddr(addr string) error {
	addr = strings.TrimSpace(strings.ToLower(addr))
	if strings.HasPrefix(addr, "127.0.0.1:") || strings.HasPrefix(addr, "localhost:") || strings.HasPrefix(addr, "[::1]:") {
		return nil
	}
	return errors.New("listen address must bind to localhost")
}

// RefreshDebounce returns the duration to wait before reloading the catalog
// after file-system change events.
func RefreshDebounce() time.Duration {
	ms := positiveIntEnv("PODCAST_REFRESH_DEBOUNCE_MS", defaultRefreshDebounceMS, true)
	return time.Duration(ms) * time.Millisecond
}

// SuggestionLimit returns the default number of suggestions per request.
func SuggestionLimit() int {
	return positiveIntEnv("PODCAST_SUGGEST_LIMIT", defaultSuggestionLimit, false)
}

// LogLevel returns the configured log level name (empty means info).
func LogLevel() string {
	return strings.TrimSpace(os.Getenv("PODCAST_LOG_LEVEL"))
}

// LogFormat returns the configured log format name (text, json or logfmt).
func LogFormat() string {
	return strings.TrimSpace(os.Getenv("PODCAST_LOG_FORMAT"))
}

func positiveIntEnv(name string, fallback int, allowZero bool) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || (n == 0 && !allowZero) {
		return fallback
	}
	return n
}

// Site describes the static presentation metadata and the known category
// vocabulary offered by the filter UI.
type Site struct {
	Title       string
	Description string
	Language    string
	Author      string
	Categories  []string
}

type siteYAML struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Author      string   `yaml:"author"`
	Categories  []string `yaml:"categories"`
}

// ResolveSite returns the site metadata after applying defaults, YAML
// configuration from PODCAST_SITE_CONFIG (when set) and environment overrides.
func ResolveSite() (Site, error) {
	site := Site{
		Title:       defaultSiteTitle,
		Description: defaultSiteDescription,
		Language:    defaultSiteLanguage,
	}

	configPath := strings.TrimSpace(os.Getenv("PODCAST_SITE_CONFIG"))
	if configPath != "" {
		resolved, err := expandPath(configPath)
		if err != nil {
			return Site{}, err
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return Site{}, err
		}
		var yamlConfig siteYAML
		if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
			return Site{}, err
		}
		if value := strings.TrimSpace(yamlConfig.Title); value != "" {
			site.Title = value
		}
		if value := strings.TrimSpace(yamlConfig.Description); value != "" {
			site.Description = value
		}
		if value := strings.TrimSpace(yamlConfig.Language); value != "" {
			site.Language = value
		}
		if value := strings.TrimSpace(yamlConfig.Author); value != "" {
			site.Author = value
		}
		for _, c := range yamlConfig.Categories {
			if c = strings.TrimSpace(c); c != "" {
				site.Categories = append(site.Categories, c)
			}
		}
	}

	if value := strings.TrimSpace(os.Getenv("PODCAST_SITE_TITLE")); value != "" {
		site.Title = value
	}
	if value := strings.TrimSpace(os.Getenv("PODCAST_SITE_DESCRIPTION")); value != "" {
		site.Description = value
	}
	if value := strings.TrimSpace(os.Getenv("PODCAST_SITE_LANGUAGE")); value != "" {
		site.Language = value
	}
	if value := strings.TrimSpace(os.Getenv("PODCAST_SITE_AUTHOR")); value != "" {
		site.Author = value
	}

	return site, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Abs(path)
}
