package entity

import "time"

// NewspaperList is a user-curated, named collection of newspapers.
// FilterAuthors and FilterCategories restrict the articles that the list's feed publishes;
// an empty filter means "no restriction".
type NewspaperList struct {
	ID               string
	Name             string
	NewspaperIDs     []int64
	FilterAuthors    []string
	FilterCategories []string
	Author           string
	CreatedAt        time.Time
}

// OwnedBy reports whether owner may change the list.
func (l *NewspaperList) OwnedBy(owner string) bool {
	return l.Author == "" || l.Author == owner
}
