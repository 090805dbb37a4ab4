package server

import (
	"encoding/xml"
	"fmt"
	"mime"
	"net/url"
	pathpkg "path"
	"sort"
	"strings"
	"time"

	"podcast-catalog/internal/models"
)

func buildRSSFeed(base *url.URL, requestPath string, p models.Podcast, site FeedMetadata) ([]byte, error) {
	feedURL := *base
	feedURL.Path = requestPath

	channelLink := *base
	channelLink.Path = "/api/podcasts/" + p.ID

	sorted := make([]models.Episode, len(p.Episodes))
	copy(sorted, p.Episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	lastBuild := p.PublishedAt.UTC()
	for _, ep := range sorted {
		if ep.PublishedAt.After(lastBuild) {
			lastBuild = ep.PublishedAt.UTC()
		}
	}
	if lastBuild.IsZero() {
		lastBuild = time.Now().UTC()
	}

	description := p.Description
	if description == "" {
		description = site.Description
	}
	author := p.Author
	if author == "" {
		author = site.Author
	}

	rss := rssFeed{
		Version:  "2.0",
		AtomNS:   "http://www.w3.org/2005/Atom",
		ITunesNS: "http://www.itunes.com/dtds/podcast-1.0.dtd",
		Channel: rssChannel{
			Title:         p.Title,
			Link:          channelLink.String(),
			Description:   description,
			Language:      site.Language,
			LastBuildDate: lastBuild.Format(time.RFC1123Z),
			Generator:     "podcast-catalog",
			AtomLink: rssAtomLink{
				Href: feedURL.String(),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			ITunesAuthor: author,
		},
	}
	if rss.Channel.Title == "" {
		rss.Channel.Title = site.Title
	}
	if p.CoverImage != nil {
		rss.Channel.ITunesImage = &rssITunesImage{Href: resolveURL(base, *p.CoverImage)}
	}
	for _, c := range p.Category {
		rss.Channel.Categories = append(rss.Channel.Categories, c)
		rss.Channel.ITunesCategories = append(rss.Channel.ITunesCategories, rssITunesCategory{Text: c})
	}

	for _, ep := range sorted {
		item := rssItem{
			Title:        ep.Title,
			GUID:         rssGUID{IsPermaLink: "false", Value: p.ID + "/" + ep.ID},
			Description:  ep.Description,
			ITunesAuthor: author,
		}
		if !ep.PublishedAt.IsZero() {
			item.PubDate = ep.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		if formatted := formatDuration(ep.DurationSeconds); formatted != "" {
			item.ITunesDuration = formatted
		}
		if ep.AudioURL != "" {
			enclosure := resolveURL(base, ep.AudioURL)
			item.Link = enclosure
			item.Enclosure = &rssEnclosure{
				URL:    enclosure,
				Length: ep.FilesizeBytes,
				Type:   mimeTypeForFilename(ep.AudioURL),
			}
		}

		rss.Channel.Items = append(rss.Channel.Items, item)
	}

	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), output...), nil
}

// resolveURL turns a site-relative reference into an absolute URL on base.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return base.ResolveReference(u).String()
}

func mimeTypeForFilename(name string) string {
	if u, err := url.Parse(name); err == nil {
		name = u.Path
	}
	ext := strings.ToLower(pathpkg.Ext(name))
	if ext != "" {
		if fallback, ok := fallbackMIMETypes[ext]; ok {
			return fallback
		}
		if value := mime.TypeByExtension(ext); value != "" {
			return value
		}
	}
	return "application/octet-stream"
}

var fallbackMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

type rssFeed struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	AtomNS   string     `xml:"xmlns:atom,attr"`
	ITunesNS string     `xml:"xmlns:itunes,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title            string              `xml:"title"`
	Link             string              `xml:"link"`
	Description      string              `xml:"description"`
	Language         string              `xml:"language,omitempty"`
	LastBuildDate    string              `xml:"lastBuildDate"`
	Generator        string              `xml:"generator"`
	AtomLink         rssAtomLink         `xml:"atom:link"`
	Categories       []string            `xml:"category"`
	ITunesAuthor     string              `xml:"itunes:author,omitempty"`
	ITunesImage      *rssITunesImage     `xml:"itunes:image,omitempty"`
	ITunesCategories []rssITunesCategory `xml:"itunes:category"`
	Items            []rssItem           `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssITunesImage struct {
	Href string `xml:"href,attr"`
}

type rssITunesCategory struct {
	Text string `xml:"text,attr"`
}

type rssItem struct {
	Title          string        `xml:"title"`
	Link           string        `xml:"link,omitempty"`
	GUID           rssGUID       `xml:"guid"`
	PubDate        string        `xml:"pubDate,omitempty"`
	Description    string        `xml:"description"`
	Enclosure      *rssEnclosure `xml:"enclosure,omitempty"`
	ITunesDuration string        `xml:"itunes:duration,omitempty"`
	ITunesAuthor   string        `xml:"itunes:author,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}
