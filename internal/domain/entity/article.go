package entity

import (
	"encoding/json"
	"time"
)

// Article is one ingested news item (a row of parsed_news).
// Link is unique across all articles and is the upsert key of the ingestion process.
type Article struct {
	ID          int64
	NewspaperID int64
	Title       string
	Link        string
	Snippet     string
	ContentHTML string
	ImageURL    string
	Author      string
	Categories  []string
	PublishedAt time.Time
	RawItem     json.RawMessage
	CreatedAt   time.Time
}

// ArticleWithNewspaper is an article joined with the display name of its newspaper.
type ArticleWithNewspaper struct {
	Article
	NewspaperName string
}
