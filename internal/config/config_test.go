package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestResolveCatalogDirDefaultEnvAndOverride(t *testing.T) {
	temp := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})

	if err := os.Chdir(temp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	t.Setenv("PODCAST_CATALOG_DIR", "")

	path, err := ResolveCatalogDir("")
	if err != nil {
		t.Fatalf("ResolveCatalogDir default: %v", err)
	}
	assertSamePath(t, path, filepath.Join(temp, "catalog"))

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected resolving not to create the catalog dir, got %v", err)
	}
	if err := EnsureCatalogDir(path); err != nil {
		t.Fatalf("EnsureCatalogDir: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat default dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected catalog dir to be a directory")
	}

	tempHome := filepath.Join(temp, "home")
	if err := os.Mkdir(tempHome, 0o755); err != nil {
		t.Fatalf("mkdir temp home: %v", err)
	}

	t.Setenv("HOME", tempHome)
	t.Setenv("PODCAST_CATALOG_DIR", "~/podcasts")

	path, err = ResolveCatalogDir("")
	if err != nil {
		t.Fatalf("ResolveCatalogDir tilde: %v", err)
	}
	assertSamePath(t, path, filepath.Join(tempHome, "podcasts"))

	override := filepath.Join(temp, "flag")
	path, err = ResolveCatalogDir(override)
	if err != nil {
		t.Fatalf("ResolveCatalogDir override: %v", err)
	}
	assertSamePath(t, path, override)
}

func TestListenAddr(t *testing.T) {
	t.Setenv("PODCAST_LISTEN_ADDR", "")
	if ListenAddr() != "127.0.0.1:8080" {
		t.Fatalf("expected default listen address")
	}

	t.Setenv("PODCAST_LISTEN_ADDR", "localhost:9000")
	if ListenAddr() != "localhost:9000" {
		t.Fatalf("expected custom listen address")
	}
}

func TestValidateListenAddr(t *testing.T) {
	valid := []string{"127.0.0.1:8080", "localhost:9000", "[::1]:7000"}
	for _, addr := range valid {
		if err := ValidateListenAddr(addr); err != nil {
			t.Fatalf("expected %s to be valid: %v", addr, err)
		}
	}

	invalid := []string{"0.0.0.0:80", "192.168.1.1:1234", ":8080"}
	for _, addr := range invalid {
		if err := ValidateListenAddr(addr); err == nil {
			t.Fatalf("expected %s to be rejected", addr)
		}
	}
}

func TestRefreshDebounce(t *testing.T) {
	t.Setenv("PODCAST_REFRESH_DEBOUNCE_MS", "")
	if RefreshDebounce() != 500*time.Millisecond {
		t.Fatalf("expected default debounce")
	}

	t.Setenv("PODCAST_REFRESH_DEBOUNCE_MS", "1500")
	if RefreshDebounce() != 1500*time.Millisecond {
		t.Fatalf("expected custom debounce")
	}

	t.Setenv("PODCAST_REFRESH_DEBOUNCE_MS", "0")
	if RefreshDebounce() != 0 {
		t.Fatalf("expected zero debounce to be accepted")
	}

	t.Setenv("PODCAST_REFRESH_DEBOUNCE_MS", "not-a-number")
	if RefreshDebounce() != 500*time.Millisecond {
		t.Fatalf("expected fallback debounce on parse error")
	}

	t.Setenv("PODCAST_REFRESH_DEBOUNCE_MS", "-10")
	if RefreshDebounce() != 500*time.Millisecond {
		t.Fatalf("expected fallback debounce on negative value")
	}
}

func TestSuggestionLimit(t *testing.T) {
	t.Setenv("PODCAST_SUGGEST_LIMIT", "")
	if SuggestionLimit() != 5 {
		t.Fatalf("expected default limit")
	}

	t.Setenv("PODCAST_SUGGEST_LIMIT", "8")
	if SuggestionLimit() != 8 {
		t.Fatalf("expected custom limit")
	}

	for _, bad := range []string{"0", "-1", "many"} {
		t.Setenv("PODCAST_SUGGEST_LIMIT", bad)
		if SuggestionLimit() != 5 {
			t.Fatalf("expected fallback for %q", bad)
		}
	}
}

func TestResolveSiteDefaultsAndEnv(t *testing.T) {
	clearSiteEnv(t)

	site, err := ResolveSite()
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}

	if site.Title != defaultSiteTitle || site.Description != defaultSiteDescription || site.Language != defaultSiteLanguage || site.Author != "" || len(site.Categories) != 0 {
		t.Fatalf("expected defaults, got %+v", site)
	}

	t.Setenv("PODCAST_SITE_TITLE", "My Casts")
	t.Setenv("PODCAST_SITE_DESCRIPTION", "All the programs")
	t.Setenv("PODCAST_SITE_LANGUAGE", "en")
	t.Setenv("PODCAST_SITE_AUTHOR", "Jane Doe")

	site, err = ResolveSite()
	if err != nil {
		t.Fatalf("ResolveSite overrides: %v", err)
	}

	if site.Title != "My Casts" || site.Description != "All the programs" || site.Language != "en" || site.Author != "Jane Doe" {
		t.Fatalf("expected env overrides, got %+v", site)
	}
}

func TestResolveSiteFromFile(t *testing.T) {
	temp := t.TempDir()
	configPath := filepath.Join(temp, "site.yaml")
	content := "" +
		"title: File Title\n" +
		"description: File Description\n" +
		"language: es\n" +
		"author: File Author\n" +
		"categories:\n" +
		"  - C#\n" +
		"  - \"  \"\n" +
		"  - SQL\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	clearSiteEnv(t)
	t.Setenv("PODCAST_SITE_CONFIG", configPath)

	site, err := ResolveSite()
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}

	if site.Title != "File Title" || site.Description != "File Description" || site.Language != "es" || site.Author != "File Author" {
		t.Fatalf("expected file-derived metadata, got %+v", site)
	}
	if !reflect.DeepEqual(site.Categories, []string{"C#", "SQL"}) {
		t.Fatalf("unexpected categories %v", site.Categories)
	}

	t.Setenv("PODCAST_SITE_TITLE", "Env Title")
	site, err = ResolveSite()
	if err != nil {
		t.Fatalf("ResolveSite env override: %v", err)
	}
	if site.Title != "Env Title" {
		t.Fatalf("expected env override to win, got %s", site.Title)
	}
}

func TestResolveSiteMissingFile(t *testing.T) {
	clearSiteEnv(t)
	t.Setenv("PODCAST_SITE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := ResolveSite(); err == nil {
		t.Fatalf("expected error for missing site config")
	}
}

func clearSiteEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PODCAST_SITE_CONFIG", "PODCAST_SITE_TITLE", "PODCAST_SITE_DESCRIPTION", "PODCAST_SITE_LANGUAGE", "PODCAST_SITE_AUTHOR"} {
		t.Setenv(name, "")
	}
}

func assertSamePath(t *testing.T, got, want string) {
	t.Helper()
	resolvedGot, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatalf("eval symlinks for %s: %v", got, err)
	}
	resolvedWant, err := filepath.EvalSymlinks(want)
	if err != nil {
		t.Fatalf("eval symlinks for %s: %v", want, err)
	}
	if resolvedGot != resolvedWant {
		t.Fatalf("expected %s, got %s", resolvedWant, resolvedGot)
	}
}
