package repository

import (
	"context"

	"newsfeed-hub/internal/domain/entity"
)

// ArticleQuery selects articles for feed assembly.
// Every non-empty field narrows the result; an empty field applies no restriction.
// Results are always ordered by published_at DESC.
type ArticleQuery struct {
	NewspaperIDs []int64  // newspaper_id must be one of these
	Authors      []string // author must be one of these
	Categories   []string // categories must share at least one entry with these
	Limit        int      // <= 0 means no limit
}

type ArticleRepository interface {
	// Query returns the articles matching q, newest first.
	Query(ctx context.Context, q ArticleQuery) ([]*entity.Article, error)
	// GetWithNewspaper retrieves an article by ID together with its newspaper name.
	// Returns (nil, nil) if the article is not found.
	GetWithNewspaper(ctx context.Context, id int64) (*entity.ArticleWithNewspaper, error)
	DistinctAuthors(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	// Upsert inserts the articles or updates them on link conflict, atomically.
	// It returns the number of rows written.
	Upsert(ctx context.Context, articles []*entity.Article) (int, error)
}
