// Package country provides use cases for managing countries.
// Newspapers reference exactly one country; countries are owned by the user who created them.
package country

import "errors"

// Sentinel errors for country use case operations.
var (
	// ErrCountryNotFound indicates that the requested country was not found.
	ErrCountryNotFound = errors.New("country not found")
)
