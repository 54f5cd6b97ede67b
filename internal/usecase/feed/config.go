package feed

import (
	"strings"

	"newsfeed-hub/pkg/config"
)

// MaxItems is the hard cap on items per feed.
const MaxItems = 50

// Config holds channel-level feed settings.
type Config struct {
	SiteURL   string // channel <link> and base of the self links
	Language  string
	Limit     int // clamped to 1..MaxItems
	Generator string

	UntitledItem  string // item title when the article has none
	UnknownSource string // item author when neither article nor newspaper provide one
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SiteURL:       "http://localhost:8080",
		Language:      "de",
		Limit:         MaxItems,
		Generator:     "newsfeed-hub",
		UntitledItem:  "Ohne Titel",
		UnknownSource: "Unbekannte Quelle",
	}
}

// LoadConfig reads SITE_URL, FEED_LANGUAGE and FEED_LIMIT.
func LoadConfig() Config {
	def := DefaultConfig()
	cfg := def
	cfg.SiteURL = config.GetEnvString("SITE_URL", def.SiteURL)
	cfg.Language = config.GetEnvString("FEED_LANGUAGE", def.Language)
	cfg.Limit = config.GetEnvInt("FEED_LIMIT", def.Limit)
	return cfg.normalized()
}

// normalized fills zero fields from the defaults and clamps Limit.
func (c Config) normalized() Config {
	def := DefaultConfig()
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	if c.SiteURL == "" {
		c.SiteURL = def.SiteURL
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Generator == "" {
		c.Generator = def.Generator
	}
	if c.UntitledItem == "" {
		c.UntitledItem = def.UntitledItem
	}
	if c.UnknownSource == "" {
		c.UnknownSource = def.UnknownSource
	}
	switch {
	case c.Limit <= 0:
		c.Limit = MaxItems
	case c.Limit > MaxItems:
		c.Limit = MaxItems
	}
	return c
}
