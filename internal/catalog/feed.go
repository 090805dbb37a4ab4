package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"podcast-catalog/internal/models"
)

// DefaultCategory labels feeds that declare no category of their own.
const DefaultCategory = "Uncategorized"

func podcastFromFeed(id string, feed *gofeed.Feed) models.Podcast {
	p := models.Podcast{
		ID:          id,
		Title:       strings.TrimSpace(feed.Title),
		Description: stripHTML(feed.Description),
		Author:      feedAuthor(feed),
		Category:    feedCategories(feed),
		Episodes:    make([]models.Episode, 0, len(feed.Items)),
	}
	if feed.Image != nil && strings.TrimSpace(feed.Image.URL) != "" {
		cover := strings.TrimSpace(feed.Image.URL)
		p.CoverImage = &cover
	}
	switch {
	case feed.PublishedParsed != nil:
		p.PublishedAt = feed.PublishedParsed.UTC()
	case feed.UpdatedParsed != nil:
		p.PublishedAt = feed.UpdatedParsed.UTC()
	}

	guids := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		guids = append(guids, item.GUID)
	}
	ids := newEpisodeIDs(guids)
	for i, item := range feed.Items {
		ep := episodeFromItem(item)
		ep.ID = ids.claim(ep.ID, i+1)
		p.Episodes = append(p.Episodes, ep)
	}

	return p
}

func episodeFromItem(item *gofeed.Item) models.Episode {
	ep := models.Episode{
		ID:          strings.TrimSpace(item.GUID),
		Title:       strings.TrimSpace(item.Title),
		Description: stripHTML(item.Description),
	}
	if ep.Description == "" {
		ep.Description = stripHTML(item.Content)
	}
	if item.PublishedParsed != nil {
		ep.PublishedAt = item.PublishedParsed.UTC()
	}
	if item.ITunesExt != nil {
		ep.DurationSeconds = parseITunesDuration(item.ITunesExt.Duration)
	}
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		ep.AudioURL = enc.URL
		if size, err := strconv.ParseInt(enc.Length, 10, 64); err == nil && size > 0 {
			ep.FilesizeBytes = size
		}
		break
	}
	return ep
}

func feedAuthor(feed *gofeed.Feed) string {
	if feed.ITunesExt != nil && strings.TrimSpace(feed.ITunesExt.Author) != "" {
		return strings.TrimSpace(feed.ITunesExt.Author)
	}
	if feed.Author != nil && feed.Author.Name != "" {
		return strings.TrimSpace(feed.Author.Name)
	}
	for _, a := range feed.Authors {
		if a != nil && a.Name != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	return ""
}

func feedCategories(feed *gofeed.Feed) []string {
	var labels []string
	seen := make(map[string]struct{})
	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" {
			return
		}
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	if feed.ITunesExt != nil {
		for _, c := range feed.ITunesExt.Categories {
			if c == nil {
				continue
			}
			add(c.Text)
			if c.Subcategory != nil {
				add(c.Subcategory.Text)
			}
		}
	}
	for _, c := range feed.Categories {
		add(c)
	}

	if len(labels) == 0 {
		return []string{DefaultCategory}
	}
	return labels
}

func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// parseITunesDuration accepts SS, MM:SS and HH:MM:SS. Unparseable values
// yield zero.
func parseITunesDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			if d, derr := time.ParseDuration(raw); derr == nil && len(parts) == 1 && d >= 0 {
				return int(d.Seconds())
			}
			return 0
		}
		total = total*60 + n
	}
	return total
}
