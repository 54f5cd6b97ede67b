package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

// Service builds feeds. Zero-value Config fields fall back to DefaultConfig.
type Service struct {
	Newspapers repository.NewspaperRepository
	Lists      repository.NewspaperListRepository
	Articles   repository.ArticleRepository
	Config     Config

	Now func() time.Time
}

// All returns the newest articles across all newspapers.
func (s *Service) All(ctx context.Context) (*Feed, error) {
	cfg := s.Config.normalized()

	articles, err := s.Articles.Query(ctx, repository.ArticleQuery{Limit: cfg.Limit})
	if err != nil {
		return nil, fmt.Errorf("all feed: %w", err)
	}

	f := s.channel(cfg, "Aggregierter News Feed",
		"Die neuesten Nachrichten von allen Quellen.", "/api/rss/all")
	if f.Items, err = s.items(ctx, cfg, articles, nil); err != nil {
		return nil, fmt.Errorf("all feed: %w", err)
	}
	return f, nil
}

// ByList returns the feed of a newspaper list, restricted by its author and category filters.
// A list without newspapers yields a feed without items.
func (s *Service) ByList(ctx context.Context, id string) (*Feed, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrListNotFound
	}
	cfg := s.Config.normalized()

	list, err := s.Lists.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	f := s.channel(cfg, "RSS Feed: "+list.Name,
		`Die neuesten Nachrichten für die Liste "`+list.Name+`".`, "/api/rss/list/"+list.ID)
	if len(list.NewspaperIDs) == 0 {
		f.Items = []Item{}
		return f, nil
	}

	articles, err := s.Articles.Query(ctx, repository.ArticleQuery{
		NewspaperIDs: list.NewspaperIDs,
		Authors:      list.FilterAuthors,
		Categories:   list.FilterCategories,
		Limit:        cfg.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	if f.Items, err = s.items(ctx, cfg, articles, nil); err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return f, nil
}

// ByNewspaper returns the newest articles of one newspaper.
func (s *Service) ByNewspaper(ctx context.Context, id int64) (*Feed, error) {
	cfg := s.Config.normalized()

	n, err := s.Newspapers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("newspaper feed: %w", err)
	}
	if n == nil {
		return nil, ErrNewspaperNotFound
	}

	articles, err := s.Articles.Query(ctx, repository.ArticleQuery{
		NewspaperIDs: []int64{n.ID},
		Limit:        cfg.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("newspaper feed: %w", err)
	}

	f := s.channel(cfg, "RSS Feed: "+n.Name,
		`Die neuesten Nachrichten von "`+n.Name+`".`,
		"/api/rss/newspaper/"+strconv.FormatInt(n.ID, 10))
	names := map[int64]string{n.ID: n.Name}
	if f.Items, err = s.items(ctx, cfg, articles, names); err != nil {
		return nil, fmt.Errorf("newspaper feed: %w", err)
	}
	return f, nil
}

func (s *Service) channel(cfg Config, title, description, selfPath string) *Feed {
	return &Feed{
		Title:         title,
		Description:   description,
		Link:          cfg.SiteURL,
		SelfLink:      cfg.SiteURL + selfPath,
		Language:      cfg.Language,
		Generator:     cfg.Generator,
		LastBuildDate: s.now(),
	}
}

// items maps articles to feed items. Newspaper names are only loaded when an
// article has no author of its own.
func (s *Service) items(ctx context.Context, cfg Config, articles []*entity.Article, names map[int64]string) ([]Item, error) {
	if len(articles) > cfg.Limit {
		articles = articles[:cfg.Limit]
	}
	if names == nil && needsNames(articles) {
		var err error
		if names, err = s.newspaperNames(ctx); err != nil {
			return nil, err
		}
	}

	items := make([]Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, toItem(cfg, a, names[a.NewspaperID]))
	}
	return items, nil
}

func (s *Service) newspaperNames(ctx context.Context) (map[int64]string, error) {
	newspapers, err := s.Newspapers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("newspaper names: %w", err)
	}
	names := make(map[int64]string, len(newspapers))
	for _, n := range newspapers {
		names[n.ID] = n.Name
	}
	return names, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func needsNames(articles []*entity.Article) bool {
	for _, a := range articles {
		if strings.TrimSpace(a.Author) == "" {
			return true
		}
	}
	return false
}

func toItem(cfg Config, a *entity.Article, newspaperName string) Item {
	it := Item{
		Title:       firstNonEmpty(a.Title, cfg.UntitledItem),
		Link:        a.Link,
		Description: firstNonEmpty(a.ContentHTML, a.Snippet),
		Author:      firstNonEmpty(a.Author, newspaperName, cfg.UnknownSource),
		Categories:  a.Categories,
		PublishedAt: a.PublishedAt,
		ImageURL:    strings.TrimSpace(a.ImageURL),
	}
	if it.Categories == nil {
		it.Categories = []string{}
	}
	return it
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
