package fetcher

import "errors"

var (
	// ErrInvalidURL is returned for unparseable URLs and non-http(s) schemes.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP is returned when a host resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects is returned after MaxRedirects hops.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge is returned for pages above MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout is returned when a single page request exceeds Timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed is returned when no article content could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")
)
