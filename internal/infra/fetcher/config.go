package fetcher

import (
	"fmt"
	"time"

	"newsfeed-hub/pkg/config"
)

// Config holds the limits for downloading article pages.
// Whether pages are fetched at all is decided by the ingest configuration.
type Config struct {
	// Timeout is the maximum duration of a single page request
	Timeout time.Duration

	// MaxBodySize is the largest accepted page in bytes, enforced while reading
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed; every target is validated again
	MaxRedirects int

	// DenyPrivateIPs blocks hosts resolving to internal addresses.
	// Should always be true in production.
	DenyPrivateIPs bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks that the limits are usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfig reads CONTENT_FETCH_TIMEOUT, CONTENT_FETCH_MAX_BODY_SIZE,
// CONTENT_FETCH_MAX_REDIRECTS and CONTENT_FETCH_DENY_PRIVATE_IPS.
// Unparseable values fall back to the default; the result is validated.
func LoadConfig() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		Timeout:        config.GetEnvDuration("CONTENT_FETCH_TIMEOUT", def.Timeout),
		MaxBodySize:    int64(config.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("content fetch configuration: %w", err)
	}
	return cfg, nil
}
