package entity

import "time"

// Newspaper is a publication with an RSS feed. It belongs to exactly one country.
type Newspaper struct {
	ID          int64
	Name        string
	URL         string
	RSS         string
	CountryID   int64
	Description string
	Author      string
	CreatedAt   time.Time
}

// OwnedBy reports whether owner may change the newspaper.
func (n *Newspaper) OwnedBy(owner string) bool {
	return n.Author == "" || n.Author == owner
}
