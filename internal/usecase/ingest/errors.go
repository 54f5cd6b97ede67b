// Package ingest fetches newspaper RSS feeds and stores their items as articles.
// It is the worker side of the refresh trigger: one run per newspaper or for all of them.
package ingest

import "errors"

// Sentinel errors for ingestion.
var (
	// ErrNewspaperNotFound indicates that the newspaper to process does not exist.
	ErrNewspaperNotFound = errors.New("newspaper not found")

	// ErrNoFeed indicates that the newspaper has no RSS URL.
	ErrNoFeed = errors.New("newspaper has no rss feed")

	// ErrAllFeedsFailed indicates that a run had newspapers but none of their feeds succeeded.
	ErrAllFeedsFailed = errors.New("all feeds failed")
)
