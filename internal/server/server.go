// Package server exposes the catalog query engine over HTTP.
package server

import (
	"errors"
	"net/http"
	"os"
	pathpkg "path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"podcast-catalog/internal/catalog"
	"podcast-catalog/internal/metadata"
	"podcast-catalog/internal/models"
	"podcast-catalog/internal/query"
)

// SnapshotProvider hands out the catalog snapshot a request works against.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// FeedMetadata describes the site-wide values used when rendering RSS feeds.
type FeedMetadata struct {
	Title       string
	Description string
	Language    string
	Author      string
}

// Options configures the handler.
type Options struct {
	AudioRoot       string
	Feed            FeedMetadata
	SuggestionLimit int
}

type serverHandler struct {
	catalog      SnapshotProvider
	audioRoot    string
	feed         FeedMetadata
	suggestLimit int
	logger       *log.Logger
}

// New creates the HTTP handler that exposes the catalog API, podcast feeds
// and local audio.
func New(src SnapshotProvider, opts Options, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	audioRoot := ""
	if opts.AudioRoot != "" {
		cleanRoot := filepath.Clean(opts.AudioRoot)
		absRoot, err := filepath.Abs(cleanRoot)
		if err != nil {
			logger.Warn("unable to resolve absolute audio root", "root", opts.AudioRoot, "err", err)
			absRoot = cleanRoot
		}
		audioRoot = absRoot
	}

	feed := opts.Feed
	if feed.Title == "" {
		feed.Title = "Podcast Catalog"
	}
	if feed.Description == "" {
		feed.Description = feed.Title
	}

	limit := opts.SuggestionLimit
	if limit <= 0 {
		limit = query.DefaultSuggestionLimit
	}

	h := &serverHandler{
		catalog:      src,
		audioRoot:    audioRoot,
		feed:         feed,
		suggestLimit: limit,
		logger:       logger,
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/podcasts", h.handlePodcasts).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id}", h.handlePodcast).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id}/feed.xml", h.handleFeed).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/search", h.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/suggest", h.handleSuggest).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)

	r.PathPrefix("/audio/").HandlerFunc(h.handleAudio).Methods(http.MethodGet, http.MethodHead)

	return withRequestID(logRequests(r, logger))
}

func (h *serverHandler) snapshot() *catalog.Snapshot {
	if h.catalog == nil {
		return nil
	}
	return h.catalog.Snapshot()
}

func (h *serverHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type podcastListResponse struct {
	Query      string           `json:"query"`
	Categories []string         `json:"categories"`
	Podcasts   []models.Podcast `json:"podcasts"`
	Stats      query.Summary    `json:"stats"`
}

func (h *serverHandler) handlePodcasts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	state := query.FilterState{
		Query:      values.Get("q"),
		Categories: query.NewCategorySet(values["category"]...),
	}

	podcasts := state.Apply(h.snapshot().Podcasts())
	h.writeResponse(w, r, http.StatusOK, podcastListResponse{
		Query:      state.Query,
		Categories: state.Categories.Labels(),
		Podcasts:   podcasts,
		Stats:      query.Stats(podcasts),
	})
}

type podcastResponse struct {
	Podcast models.Podcast `json:"podcast"`
	Stats   query.Summary  `json:"stats"`
}

func (h *serverHandler) handlePodcast(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := h.snapshot().Podcast(id)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "podcast not found")
		return
	}
	h.writeResponse(w, r, http.StatusOK, podcastResponse{
		Podcast: p,
		Stats:   query.Stats([]models.Podcast{p}),
	})
}

func (h *serverHandler) handleFeed(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := h.snapshot().Podcast(id)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "podcast not found")
		return
	}

	base := requestBaseURL(r)
	if base == nil {
		h.logger.Error("unable to determine request base URL")
		h.writeError(w, r, http.StatusInternalServerError, "unable to determine base URL")
		return
	}

	data, err := buildRSSFeed(base, r.URL.Path, p, h.feed)
	if err != nil {
		h.logger.Error("failed to build RSS feed", "podcast", id, "err", err)
		h.writeError(w, r, http.StatusInternalServerError, "failed to build feed")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write RSS feed", "err", err)
	}
}

type categoriesResponse struct {
	Prefix     string                  `json:"prefix"`
	Categories []query.CategorySummary `json:"categories"`
}

func (h *serverHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	prefix := r.URL.Query().Get("prefix")
	labels := snap.Vocabulary().Complete(prefix)

	h.writeResponse(w, r, http.StatusOK, categoriesResponse{
		Prefix:     prefix,
		Categories: query.AllCategoryStats(snap.Podcasts(), labels),
	})
}

type searchResponse struct {
	Query       string           `json:"query"`
	Results     []models.Podcast `json:"results"`
	Suggestions []string         `json:"suggestions"`
	Count       int              `json:"count"`
}

func (h *serverHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	podcasts := h.snapshot().Podcasts()
	results := []models.Podcast{}
	if state := (query.FilterState{Query: q}); !state.IsEmpty() {
		results = state.Apply(podcasts)
	}

	h.writeResponse(w, r, http.StatusOK, searchResponse{
		Query:       q,
		Results:     results,
		Suggestions: query.Suggest(podcasts, q, limit),
		Count:       len(results),
	})
}

type suggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

func (h *serverHandler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	h.writeResponse(w, r, http.StatusOK, suggestResponse{
		Query:       q,
		Suggestions: query.Suggest(h.snapshot().Podcasts(), q, limit),
	})
}

type statsResponse struct {
	query.Summary
	Hours          int    `json:"hours"`
	VocabularySize int    `json:"vocabulary_size"`
	LoadedAt       string `json:"loaded_at,omitempty"`
}

func (h *serverHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	summary := query.Stats(snap.Podcasts())

	resp := statsResponse{
		Summary:        summary,
		Hours:          summary.Hours(),
		VocabularySize: snap.Vocabulary().Len(),
	}
	if loaded := snap.LoadedAt(); !loaded.IsZero() {
		resp.LoadedAt = loaded.Format(time.RFC3339)
	}
	h.writeResponse(w, r, http.StatusOK, resp)
}

func (h *serverHandler) handleAudio(w http.ResponseWriter, r *http.Request) {
	if h.audioRoot == "" {
		h.writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/audio/")
	rel = pathpkg.Clean("/" + rel)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." || !servableAudio(rel) {
		h.writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	target := filepath.Join(h.audioRoot, filepath.FromSlash(rel))
	resolved, err := filepath.Abs(target)
	if err != nil {
		h.logger.Error("failed to resolve audio path", "path", target, "err", err)
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if !pathWithinRoot(h.audioRoot, resolved) {
		h.writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.writeError(w, r, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("failed to stat audio file", "path", resolved, "err", err)
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if info.IsDir() {
		h.writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	http.ServeFile(w, r, resolved)
}

// servableAudio reports whether rel names an audio file outside any hidden
// file or directory. Catalog documents share the root and are never served.
func servableAudio(rel string) bool {
	if !metadata.IsAudioFile(rel) {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return true
}

func (h *serverHandler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return h.suggestLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid limit "+strconv.Quote(raw))
		return 0, false
	}
	return limit, true
}

func pathWithinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}
