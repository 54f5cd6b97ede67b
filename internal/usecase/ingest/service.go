package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/observability/metrics"
	"newsfeed-hub/internal/repository"
	"newsfeed-hub/internal/utils/text"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Newspapers    int           `json:"newspapers"`
	ItemsFound    int64         `json:"items_found"`
	ItemsUpserted int64         `json:"items_upserted"`
	FeedErrors    int64         `json:"feed_errors"`
	Duration      time.Duration `json:"duration_ns"`
}

// Service fetches feeds and upserts their items. Enhancer may be nil.
type Service struct {
	Newspapers repository.NewspaperRepository
	Articles   repository.ArticleRepository
	Fetcher    FeedFetcher
	Enhancer   ContentFetcher
	Config     Config

	Now func() time.Time
}

// ProcessAll ingests every newspaper with an RSS URL. A failing feed is logged and
// counted in Stats.FeedErrors. The run fails when listing the newspapers fails, when it
// is cancelled, or with ErrAllFeedsFailed when no feed succeeded.
func (s *Service) ProcessAll(ctx context.Context) (*Stats, error) {
	start := time.Now()
	cfg := s.Config.normalized()
	stats := &Stats{}

	newspapers, err := s.Newspapers.ListWithFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newspapers with feed: %w", err)
	}
	stats.Newspapers = len(newspapers)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Parallelism)
	for _, n := range newspapers {
		eg.Go(func() error {
			if err := s.processNewspaper(egCtx, cfg, n, stats); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.FeedErrors, 1)
				slog.Warn("newspaper ingestion failed",
					slog.Int64("newspaper_id", n.ID),
					slog.String("rss", n.RSS),
					slog.Any("error", err))
			}
			return nil
		})
	}
	err = eg.Wait()
	stats.Duration = time.Since(start)

	slog.Info("ingestion run completed",
		slog.Int("newspapers", stats.Newspapers),
		slog.Int64("items_found", stats.ItemsFound),
		slog.Int64("items_upserted", stats.ItemsUpserted),
		slog.Int64("feed_errors", stats.FeedErrors),
		slog.Duration("duration", stats.Duration))

	if err != nil {
		return stats, fmt.Errorf("ingestion aborted: %w", err)
	}
	if stats.Newspapers > 0 && stats.FeedErrors == int64(stats.Newspapers) {
		return stats, fmt.Errorf("%d of %d newspapers: %w", stats.FeedErrors, stats.Newspapers, ErrAllFeedsFailed)
	}
	return stats, nil
}

// ProcessOne ingests a single newspaper and returns its feed error, if any.
func (s *Service) ProcessOne(ctx context.Context, id int64) (*Stats, error) {
	start := time.Now()
	cfg := s.Config.normalized()

	n, err := s.Newspapers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get newspaper: %w", err)
	}
	if n == nil {
		return nil, ErrNewspaperNotFound
	}
	if n.RSS == "" {
		return nil, ErrNoFeed
	}

	stats := &Stats{Newspapers: 1}
	err = s.processNewspaper(ctx, cfg, n, stats)
	stats.Duration = time.Since(start)
	if err != nil {
		stats.FeedErrors = 1
		return stats, err
	}
	return stats, nil
}

func (s *Service) processNewspaper(ctx context.Context, cfg Config, n *entity.Newspaper, stats *Stats) error {
	start := time.Now()

	items, err := s.Fetcher.Fetch(ctx, n.RSS)
	if err != nil {
		metrics.RecordIngestError("fetch")
		return fmt.Errorf("fetch feed %s: %w", n.RSS, err)
	}
	atomic.AddInt64(&stats.ItemsFound, int64(len(items)))

	now := s.now()
	articles := make([]*entity.Article, 0, len(items))
	for _, it := range items {
		if a := toArticle(n.ID, it, cfg.SnippetLength, now); a != nil {
			articles = append(articles, a)
		}
	}
	if len(articles) == 0 {
		slog.Info("feed is empty", slog.Int64("newspaper_id", n.ID), slog.String("rss", n.RSS))
		metrics.RecordIngestFeed(time.Since(start), 0)
		return nil
	}

	if err := s.enhance(ctx, cfg, articles); err != nil {
		return err
	}

	written, err := s.Articles.Upsert(ctx, articles)
	if err != nil {
		metrics.RecordIngestError("store")
		return fmt.Errorf("upsert articles: %w", err)
	}
	atomic.AddInt64(&stats.ItemsUpserted, int64(written))
	metrics.RecordIngestFeed(time.Since(start), written)

	slog.Info("newspaper ingested",
		slog.Int64("newspaper_id", n.ID),
		slog.Int("items", len(items)),
		slog.Int("upserted", written),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// enhance replaces short content with the article page's main content.
// Failures keep the feed content; only cancellation is returned.
func (s *Service) enhance(ctx context.Context, cfg Config, articles []*entity.Article) error {
	if s.Enhancer == nil || !cfg.ContentFetchEnabled {
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.ContentParallelism)
	for _, a := range articles {
		have := text.CountRunes(text.PlainText(a.ContentHTML))
		if have >= cfg.ContentThreshold {
			metrics.RecordContentFetchSkipped()
			continue
		}
		eg.Go(func() error {
			fetchStart := time.Now()
			content, err := s.Enhancer.FetchContent(egCtx, a.Link)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				metrics.RecordContentFetchFailed(time.Since(fetchStart))
				slog.Debug("content fetch failed, keeping feed content",
					slog.String("url", a.Link),
					slog.Any("error", err))
				return nil
			}
			metrics.RecordContentFetchSuccess(time.Since(fetchStart))

			// 取得した本文がフィードより短い場合は使わない
			if text.CountRunes(text.PlainText(content)) > have {
				a.ContentHTML = content
			}
			return nil
		})
	}
	return eg.Wait()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
