package repository

import (
	"context"

	"newsfeed-hub/internal/domain/entity"
)

// NewspaperRepository persists newspapers. Get and FindByRSS return (nil, nil) when absent.
type NewspaperRepository interface {
	Get(ctx context.Context, id int64) (*entity.Newspaper, error)
	FindByRSS(ctx context.Context, rss string) (*entity.Newspaper, error)
	List(ctx context.Context) ([]*entity.Newspaper, error)
	ListByAuthor(ctx context.Context, author string) ([]*entity.Newspaper, error)
	ListByCountry(ctx context.Context, countryID int64) ([]*entity.Newspaper, error)
	// ListWithFeed returns every newspaper that has a non-empty RSS URL.
	ListWithFeed(ctx context.Context) ([]*entity.Newspaper, error)
	Create(ctx context.Context, newspaper *entity.Newspaper) error
	Update(ctx context.Context, newspaper *entity.Newspaper) error
	Delete(ctx context.Context, id int64) error
}
