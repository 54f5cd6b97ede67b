package repository

import (
	"context"

	"newsfeed-hub/internal/domain/entity"
)

// NewspaperListRepository persists newspaper lists. Get returns (nil, nil) when absent.
type NewspaperListRepository interface {
	Get(ctx context.Context, id string) (*entity.NewspaperList, error)
	List(ctx context.Context) ([]*entity.NewspaperList, error)
	ListByAuthor(ctx context.Context, author string) ([]*entity.NewspaperList, error)
	Create(ctx context.Context, list *entity.NewspaperList) error
	Update(ctx context.Context, list *entity.NewspaperList) error
	UpdateFilterAuthors(ctx context.Context, id string, authors []string) error
	UpdateFilterCategories(ctx context.Context, id string, categories []string) error
	Delete(ctx context.Context, id string) error
}
