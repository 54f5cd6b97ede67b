package feed

import "time"

// Feed is one assembled channel, ready for serialization.
type Feed struct {
	Title         string
	Description   string
	Link          string // site URL
	SelfLink      string // URL of the feed itself
	Language      string
	Generator     string
	LastBuildDate time.Time
	Items         []Item
}

// Item is one feed entry derived from an article.
type Item struct {
	Title       string
	Link        string
	Description string
	Author      string
	Categories  []string
	PublishedAt time.Time
	ImageURL    string
}
