package article

import (
	"context"
	"fmt"
	"sort"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

// Service provides article read use cases.
type Service struct {
	Repo repository.ArticleRepository
}

// Get retrieves an article together with the name of its newspaper.
// Returns ErrInvalidArticleID for non-positive ids and ErrArticleNotFound if absent.
func (s *Service) Get(ctx context.Context, id int64) (*entity.ArticleWithNewspaper, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	a, err := s.Repo.GetWithNewspaper(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// Authors returns the distinct non-empty article authors, sorted.
func (s *Service) Authors(ctx context.Context) ([]string, error) {
	authors, err := s.Repo.DistinctAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct authors: %w", err)
	}
	return clean(authors), nil
}

// Categories returns the distinct non-empty article categories, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.Repo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	return clean(categories), nil
}

// clean drops blanks and duplicates; the database functions already do this,
// but the filter editors rely on it.
func clean(values []string) []string {
	out := entity.NormalizeFilter(values)
	sort.Strings(out)
	return out
}
