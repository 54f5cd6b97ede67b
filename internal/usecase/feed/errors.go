// Package feed assembles RSS feeds from stored articles: the aggregated feed of all
// newspapers, the feed of one newspaper and the filtered feed of a newspaper list.
package feed

import "errors"

var (
	// ErrListNotFound indicates that the requested newspaper list was not found.
	ErrListNotFound = errors.New("newspaper list not found")

	// ErrNewspaperNotFound indicates that the requested newspaper was not found.
	ErrNewspaperNotFound = errors.New("newspaper not found")
)
