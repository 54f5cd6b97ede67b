// Package scraper fetches newspaper RSS/Atom feeds with gofeed.
// Requests run through a circuit breaker and are retried with backoff.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newsfeed-hub/internal/resilience/circuitbreaker"
	"newsfeed-hub/internal/resilience/retry"
	"newsfeed-hub/internal/usecase/ingest"
)

const (
	userAgent = "NewsfeedHubBot/1.0"

	// MaxFeedSize is the largest feed document that is parsed.
	MaxFeedSize = 10 << 20
)

// ErrFeedTooLarge is returned for feeds above MaxFeedSize.
var ErrFeedTooLarge = errors.New("feed exceeds size limit")

// RSSFetcher implements ingest.FeedFetcher.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher creates a fetcher using client; nil means a client with a 15s timeout.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// WithRetryConfig replaces the retry settings, mainly for tests.
func (f *RSSFetcher) WithRetryConfig(cfg retry.Config) *RSSFetcher {
	f.retryConfig = cfg
	return f
}

// Fetch downloads and parses the feed at feedURL.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	var items []ingest.FeedItem

	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		res, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = res.([]ingest.FeedItem)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	if len(body) > MaxFeedSize {
		return nil, ErrFeedTooLarge
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]ingest.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, toFeedItem(it))
	}
	return items, nil
}

func toFeedItem(it *gofeed.Item) ingest.FeedItem {
	out := ingest.FeedItem{
		Title:       it.Title,
		Link:        it.Link,
		Description: it.Description,
		Content:     it.Content,
		Author:      authorName(it),
		Categories:  it.Categories,
		ImageURL:    imageURL(it),
		PublishedAt: it.PublishedParsed,
		UpdatedAt:   it.UpdatedParsed,
	}
	if out.Link == "" && strings.HasPrefix(it.GUID, "http") {
		out.Link = it.GUID
	}
	if raw, err := json.Marshal(it); err == nil {
		out.Raw = raw
	}
	return out
}

func authorName(it *gofeed.Item) string {
	for _, a := range it.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	if it.Author != nil {
		return strings.TrimSpace(it.Author.Name)
	}
	return ""
}

func imageURL(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
