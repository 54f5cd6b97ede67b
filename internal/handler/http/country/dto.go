package country

import (
	"time"

	"newsfeed-hub/internal/domain/entity"
)

// DTO is the JSON shape of a country.
type DTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Short     string    `json:"short"`
	Forum     string    `json:"forum"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionDTO is one entry of the country select.
type OptionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type writeRequest struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Short    string `json:"short"`
	Forum    string `json:"forum"`
}

func toDTO(c *entity.Country) DTO {
	return DTO{
		ID:        c.ID,
		Name:      c.Name,
		FullName:  c.FullName,
		Short:     c.Short,
		Forum:     c.Forum,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
	}
}

func toDTOs(countries []*entity.Country) []DTO {
	out := make([]DTO, 0, len(countries))
	for _, c := range countries {
		out = append(out, toDTO(c))
	}
	return out
}
