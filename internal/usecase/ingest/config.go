package ingest

import (
	"newsfeed-hub/pkg/config"
)

// Config controls parallelism and content enhancement.
type Config struct {
	// Parallelism is the number of newspapers processed at once
	Parallelism int

	// ContentFetchEnabled turns on downloading article pages for short items
	ContentFetchEnabled bool

	// ContentThreshold is the rune count below which feed content is enhanced
	ContentThreshold int

	// ContentParallelism bounds concurrent page downloads within one feed
	ContentParallelism int

	// SnippetLength is the maximum snippet length in runes
	SnippetLength int
}

// DefaultConfig returns the default ingestion settings.
func DefaultConfig() Config {
	return Config{
		Parallelism:         5,
		ContentFetchEnabled: true,
		ContentThreshold:    1500,
		ContentParallelism:  4,
		SnippetLength:       500,
	}
}

// LoadConfig reads INGEST_PARALLELISM, CONTENT_FETCH_ENABLED and CONTENT_FETCH_THRESHOLD.
func LoadConfig() Config {
	def := DefaultConfig()
	return Config{
		Parallelism:         config.GetEnvIntInRange("INGEST_PARALLELISM", def.Parallelism, 1, 50),
		ContentFetchEnabled: config.GetEnvBool("CONTENT_FETCH_ENABLED", def.ContentFetchEnabled),
		ContentThreshold:    config.GetEnvIntInRange("CONTENT_FETCH_THRESHOLD", def.ContentThreshold, 0, 1_000_000),
		ContentParallelism:  config.GetEnvIntInRange("CONTENT_FETCH_PARALLELISM", def.ContentParallelism, 1, 50),
		SnippetLength:       def.SnippetLength,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Parallelism < 1 {
		c.Parallelism = def.Parallelism
	}
	if c.ContentParallelism < 1 {
		c.ContentParallelism = def.ContentParallelism
	}
	if c.SnippetLength < 1 {
		c.SnippetLength = def.SnippetLength
	}
	if c.ContentThreshold < 0 {
		c.ContentThreshold = 0
	}
	return c
}
