// Package newslist provides use cases for user-curated newspaper lists and their
// author and category filters.
package newslist

import "errors"

// Sentinel errors for newspaper list use case operations.
var (
	// ErrListNotFound indicates that the requested list was not found.
	// Malformed list ids are reported the same way.
	ErrListNotFound = errors.New("newspaper list not found")
)
