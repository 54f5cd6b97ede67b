package newspaper

import (
	"time"

	"newsfeed-hub/internal/domain/entity"
)

// DTO is the JSON shape of a newspaper. Country is the country id.
type DTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	RSS         string    `json:"rss"`
	Country     int64     `json:"country"`
	Description string    `json:"description"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type writeRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	RSS         string `json:"rss"`
	Country     int64  `json:"country"`
	Description string `json:"description"`
}

func toDTO(n *entity.Newspaper) DTO {
	return DTO{
		ID:          n.ID,
		Name:        n.Name,
		URL:         n.URL,
		RSS:         n.RSS,
		Country:     n.CountryID,
		Description: n.Description,
		Author:      n.Author,
		CreatedAt:   n.CreatedAt,
	}
}

func toDTOs(newspapers []*entity.Newspaper) []DTO {
	out := make([]DTO, 0, len(newspapers))
	for _, n := range newspapers {
		out = append(out, toDTO(n))
	}
	return out
}
