package repository

import (
	"context"

	"newsfeed-hub/internal/domain/entity"
)

// CountryRepository persists countries. Get and FindByShort return (nil, nil) when absent.
type CountryRepository interface {
	Get(ctx context.Context, id int64) (*entity.Country, error)
	FindByShort(ctx context.Context, short string) (*entity.Country, error)
	List(ctx context.Context) ([]*entity.Country, error)
	ListByAuthor(ctx context.Context, author string) ([]*entity.Country, error)
	Options(ctx context.Context) ([]entity.CountryOption, error)
	Create(ctx context.Context, country *entity.Country) error
	Update(ctx context.Context, country *entity.Country) error
	Delete(ctx context.Context, id int64) error
}
