package article

import (
	"time"

	"newsfeed-hub/internal/domain/entity"
)

// DTO is the JSON shape of an article.
type DTO struct {
	ID            int64     `json:"id"`
	NewspaperID   int64     `json:"newspaper_id"`
	NewspaperName string    `json:"newspaper_name"`
	Title         string    `json:"title"`
	Link          string    `json:"link"`
	Snippet       string    `json:"snippet"`
	ContentHTML   string    `json:"content_html"`
	ImageURL      string    `json:"image_url,omitempty"`
	Author        string    `json:"author,omitempty"`
	Categories    []string  `json:"categories"`
	PublishedAt   time.Time `json:"published_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDTO(a *entity.ArticleWithNewspaper) DTO {
	categories := a.Categories
	if categories == nil {
		categories = []string{}
	}
	return DTO{
		ID:            a.ID,
		NewspaperID:   a.NewspaperID,
		NewspaperName: a.NewspaperName,
		Title:         a.Title,
		Link:          a.Link,
		Snippet:       a.Snippet,
		ContentHTML:   a.ContentHTML,
		ImageURL:      a.ImageURL,
		Author:        a.Author,
		Categories:    categories,
		PublishedAt:   a.PublishedAt,
		CreatedAt:     a.CreatedAt,
	}
}

// LookupDTO wraps the author and category vocabularies.
type LookupDTO struct {
	Items []string `json:"items"`
}
