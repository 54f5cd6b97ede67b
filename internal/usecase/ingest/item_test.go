package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"newsfeed-hub/internal/utils/text"
)

func TestToArticle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	published := time.Date(2024, 4, 30, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	updated := time.Date(2024, 4, 29, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		item  FeedItem
		check func(t *testing.T, title, snippet, image string, pub time.Time)
	}{
		{
			name: "published date converted to UTC",
			item: FeedItem{Title: " Wahl\n  2024 ", Link: "https://x/1", PublishedAt: &published, UpdatedAt: &updated},
			check: func(t *testing.T, title, _, _ string, pub time.Time) {
				if title != "Wahl 2024" {
					t.Errorf("title = %q", title)
				}
				if !pub.Equal(published) || pub.Location() != time.UTC {
					t.Errorf("published = %v", pub)
				}
			},
		},
		{
			name: "updated date fallback",
			item: FeedItem{Link: "https://x/2", UpdatedAt: &updated},
			check: func(t *testing.T, _, _, _ string, pub time.Time) {
				if !pub.Equal(updated) {
					t.Errorf("published = %v, want %v", pub, updated)
				}
			},
		},
		{
			name: "now fallback",
			item: FeedItem{Link: "https://x/3"},
			check: func(t *testing.T, _, _, _ string, pub time.Time) {
				if !pub.Equal(now) {
					t.Errorf("published = %v, want now", pub)
				}
			},
		},
		{
			name: "snippet stripped and truncated",
			item: FeedItem{Link: "https://x/4", Description: "<p>" + strings.Repeat("Nachricht ", 100) + "</p>"},
			check: func(t *testing.T, _, snippet, _ string, _ time.Time) {
				if strings.Contains(snippet, "<p>") {
					t.Errorf("snippet contains HTML: %q", snippet)
				}
				if n := text.CountRunes(snippet); n > 500 {
					t.Errorf("snippet has %d runes", n)
				}
			},
		},
		{
			name: "image from description",
			item: FeedItem{Link: "https://x/5", Description: `<img src="https://img/x.jpg"> Text`},
			check: func(t *testing.T, _, snippet, image string, _ time.Time) {
				if image != "https://img/x.jpg" {
					t.Errorf("image = %q", image)
				}
				if snippet != "Text" {
					t.Errorf("snippet = %q", snippet)
				}
			},
		},
		{
			name: "feed image wins",
			item: FeedItem{Link: "https://x/6", ImageURL: "https://img/feed.png", Content: `<img src="https://img/c.jpg">`},
			check: func(t *testing.T, _, _, image string, _ time.Time) {
				if image != "https://img/feed.png" {
					t.Errorf("image = %q", image)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := toArticle(7, tt.item, 500, now)
			if a == nil {
				t.Fatal("toArticle returned nil")
			}
			if a.NewspaperID != 7 {
				t.Errorf("newspaper id = %d", a.NewspaperID)
			}
			tt.check(t, a.Title, a.Snippet, a.ImageURL, a.PublishedAt)
		})
	}
}

func TestToArticle_SkipsMissingLink(t *testing.T) {
	if a := toArticle(1, FeedItem{Title: "ohne Link", Link: "  "}, 500, time.Now()); a != nil {
		t.Errorf("want nil, got %+v", a)
	}
}

func TestToArticle_CategoriesAndAuthor(t *testing.T) {
	a := toArticle(1, FeedItem{
		Link:       "https://x/1",
		Author:     " Jane ",
		Categories: []string{"tech", " tech", "", "sports"},
		Content:    "<p>Inhalt</p>",
	}, 500, time.Now())

	if a.Author != "Jane" {
		t.Errorf("author = %q", a.Author)
	}
	if diff := cmp.Diff([]string{"tech", "sports"}, a.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if a.Snippet != "Inhalt" || a.ContentHTML != "<p>Inhalt</p>" {
		t.Errorf("snippet=%q content=%q", a.Snippet, a.ContentHTML)
	}
}
