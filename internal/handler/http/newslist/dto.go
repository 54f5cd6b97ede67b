package newslist

import (
	"time"

	"newsfeed-hub/internal/domain/entity"
)

// DTO is the JSON shape of a newspaper list.
type DTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Newspapers       []int64   `json:"newspapers"`
	FilterAuthors    []string  `json:"filter_authors"`
	FilterCategories []string  `json:"filter_categories"`
	Author           string    `json:"author,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type writeRequest struct {
	Name             string   `json:"name"`
	Newspapers       []int64  `json:"newspapers"`
	FilterAuthors    []string `json:"filter_authors"`
	FilterCategories []string `json:"filter_categories"`
}

// filterRequest replaces one filter; an empty array removes it.
type filterRequest struct {
	Values []string `json:"values"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toDTO(l *entity.NewspaperList) DTO {
	return DTO{
		ID:               l.ID,
		Name:             l.Name,
		Newspapers:       nonNil(l.NewspaperIDs),
		FilterAuthors:    nonNil(l.FilterAuthors),
		FilterCategories: nonNil(l.FilterCategories),
		Author:           l.Author,
		CreatedAt:        l.CreatedAt,
	}
}

func toDTOs(lists []*entity.NewspaperList) []DTO {
	out := make([]DTO, 0, len(lists))
	for _, l := range lists {
		out = append(out, toDTO(l))
	}
	return out
}
