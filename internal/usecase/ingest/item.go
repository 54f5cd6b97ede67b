package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/utils/text"
)

// FeedItem is one parsed entry of a newspaper feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string // summary HTML
	Content     string // full content HTML, often empty
	Author      string
	Categories  []string
	ImageURL    string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Raw         json.RawMessage
}

// FeedFetcher loads and parses a feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// ContentFetcher downloads an article page and returns its main content as HTML.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// toArticle maps a feed item to the stored article. Items without link return nil.
func toArticle(newspaperID int64, it FeedItem, snippetLength int, now time.Time) *entity.Article {
	link := strings.TrimSpace(it.Link)
	if link == "" {
		return nil
	}

	a := &entity.Article{
		NewspaperID: newspaperID,
		Title:       text.CollapseSpace(it.Title),
		Link:        link,
		Snippet:     text.Snippet(it.Description, snippetLength),
		ContentHTML: strings.TrimSpace(it.Content),
		ImageURL:    strings.TrimSpace(it.ImageURL),
		Author:      strings.TrimSpace(it.Author),
		Categories:  entity.NormalizeFilter(it.Categories),
		RawItem:     it.Raw,
	}
	if a.Snippet == "" && a.ContentHTML != "" {
		a.Snippet = text.Snippet(a.ContentHTML, snippetLength)
	}
	if a.ImageURL == "" {
		a.ImageURL = text.FirstImage(it.Content)
	}
	if a.ImageURL == "" {
		a.ImageURL = text.FirstImage(it.Description)
	}

	switch {
	case it.PublishedAt != nil && !it.PublishedAt.IsZero():
		a.PublishedAt = it.PublishedAt.UTC()
	case it.UpdatedAt != nil && !it.UpdatedAt.IsZero():
		a.PublishedAt = it.UpdatedAt.UTC()
	default:
		a.PublishedAt = now.UTC()
	}
	return a
}
