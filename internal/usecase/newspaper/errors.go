// Package newspaper provides use cases for managing newspapers and their RSS feeds.
package newspaper

import "errors"

// Sentinel errors for newspaper use case operations.
var (
	// ErrNewspaperNotFound indicates that the requested newspaper was not found.
	ErrNewspaperNotFound = errors.New("newspaper not found")
)
