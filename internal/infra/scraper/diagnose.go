package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Diagnosis statuses. OK and REDIRECT count as working.
const (
	StatusOK         = "OK"
	StatusRedirect   = "REDIRECT"
	StatusHTTPError  = "HTTP_ERROR"
	StatusTimeout    = "TIMEOUT"
	StatusParseError = "PARSE_ERROR"
	StatusEmpty      = "EMPTY"
	StatusTooLarge   = "TOO_LARGE"
)

// Diagnosis is the health of one feed URL.
type Diagnosis struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	HTTPCode     int    `json:"http_code,omitempty"`
	FeedType     string `json:"feed_type,omitempty"`
	ItemCount    int    `json:"item_count"`
	Latest       string `json:"latest,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	ResponseMS   int64  `json:"response_time_ms"`
	ErrorMessage string `json:"error,omitempty"`
}

// Working reports whether the feed can be ingested.
func (d Diagnosis) Working() bool {
	return d.Status == StatusOK || d.Status == StatusRedirect
}

// Diagnose fetches feedURL once, without retry or circuit breaker, and classifies the result.
// client nil means a client with a 30s timeout.
func Diagnose(ctx context.Context, client *http.Client, name, feedURL string) Diagnosis {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := Diagnosis{Name: name, URL: feedURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		d.Status, d.ErrorMessage = StatusHTTPError, err.Error()
		return d
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := client.Do(req)
	d.ResponseMS = time.Since(start).Milliseconds()
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			d.Status = StatusTimeout
		} else {
			d.Status = StatusHTTPError
		}
		d.ErrorMessage = err.Error()
		return d
	}
	defer func() { _ = resp.Body.Close() }()

	d.HTTPCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		d.Status, d.ErrorMessage = StatusHTTPError, resp.Status
		return d
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		d.Status, d.ErrorMessage = StatusHTTPError, fmt.Sprintf("read body: %v", err)
		return d
	}
	if len(body) > MaxFeedSize {
		d.Status, d.ErrorMessage = StatusTooLarge, ErrFeedTooLarge.Error()
		return d
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		d.Status, d.ErrorMessage = StatusParseError, err.Error()
		return d
	}
	d.FeedType = feed.FeedType
	d.ItemCount = len(feed.Items)
	if latest := latestItem(feed); latest != nil {
		d.Latest = latest.UTC().Format(time.RFC3339)
	}

	switch {
	case d.ItemCount == 0:
		d.Status, d.ErrorMessage = StatusEmpty, "feed has no items"
	case resp.Request.URL.String() != feedURL:
		d.Status, d.RedirectURL = StatusRedirect, resp.Request.URL.String()
	default:
		d.Status = StatusOK
	}
	return d
}

func latestItem(feed *gofeed.Feed) *time.Time {
	var latest *time.Time
	for _, it := range feed.Items {
		t := it.PublishedParsed
		if t == nil {
			t = it.UpdatedParsed
		}
		if t != nil && (latest == nil || t.After(*latest)) {
			latest = t
		}
	}
	return latest
}
