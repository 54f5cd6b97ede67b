// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Country, Newspaper, NewspaperList
// and Article, along with their validation rules and domain-specific errors.
package entity

import "time"

// Country groups newspapers by their country of publication.
type Country struct {
	ID        int64
	Name      string
	FullName  string
	Short     string
	Forum     string
	Author    string
	CreatedAt time.Time
}

// CountryOption is the reduced (id, name) projection used by select inputs.
type CountryOption struct {
	ID   int64
	Name string
}

// OwnedBy reports whether owner may change the country.
// Records without an author are editable by every authenticated user.
func (c *Country) OwnedBy(owner string) bool {
	return c.Author == "" || c.Author == owner
}
