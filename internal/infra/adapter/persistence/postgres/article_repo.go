package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

const articleColumns = `a.id, a.newspaper_id, a.title, a.link, a.snippet, a.content_html,
       a.image_url, a.author, a.categories, a.published_at, a.created_at`

func scanArticle(s rowScanner, extra ...any) (*entity.Article, error) {
	var a entity.Article
	var title, snippet, content, image, author sql.NullString
	var categories pq.StringArray
	var published sql.NullTime
	dest := []any{
		&a.ID, &a.NewspaperID, &title, &a.Link, &snippet, &content,
		&image, &author, &categories, &published, &a.CreatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.Title = title.String
	a.Snippet = snippet.String
	a.ContentHTML = content.String
	a.ImageURL = image.String
	a.Author = author.String
	a.Categories = []string(categories)
	if published.Valid {
		a.PublishedAt = published.Time
	}
	return &a, nil
}

func (repo *ArticleRepo) Query(ctx context.Context, q repository.ArticleQuery) ([]*entity.Article, error) {
	tail, args := repo.queryBuilder.Build(q, "a")
	query := `
SELECT ` + articleColumns + `
FROM parsed_news a
` + tail

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	capacity := q.Limit
	if capacity <= 0 {
		capacity = 100
	}
	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	articles := make([]*entity.Article, 0, capacity)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("Query: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) GetWithNewspaper(ctx context.Context, id int64) (*entity.ArticleWithNewspaper, error) {
	const query = `
SELECT ` + articleColumns + `, n.name AS newspaper_name
FROM parsed_news a
LEFT JOIN newspaper n ON a.newspaper_id = n.id
WHERE a.id = $1
LIMIT 1`
	var name sql.NullString
	a, err := scanArticle(repo.db.QueryRowContext(ctx, query, id), &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithNewspaper: %w", err)
	}
	return &entity.ArticleWithNewspaper{Article: *a, NewspaperName: name.String}, nil
}

// DistinctAuthors backs the author filter picker.
func (repo *ArticleRepo) DistinctAuthors(ctx context.Context) ([]string, error) {
	const query = `SELECT author FROM get_distinct_authors()`
	return repo.scanStrings(ctx, "DistinctAuthors", query)
}

// DistinctCategories backs the category filter picker.
func (repo *ArticleRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT category FROM get_distinct_categories()`
	return repo.scanStrings(ctx, "DistinctCategories", query)
}

func (repo *ArticleRepo) scanStrings(ctx context.Context, op, query string) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0, 64)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Upsert writes the articles of one ingestion run in a single transaction.
// An existing row with the same link is overwritten; created_at is kept.
func (repo *ArticleRepo) Upsert(ctx context.Context, articles []*entity.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	const query = `
INSERT INTO parsed_news
       (newspaper_id, title, link, snippet, content_html, image_url, author, categories, published_at, raw_item)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (link) DO UPDATE SET
       newspaper_id = EXCLUDED.newspaper_id,
       title        = EXCLUDED.title,
       snippet      = EXCLUDED.snippet,
       content_html = EXCLUDED.content_html,
       image_url    = EXCLUDED.image_url,
       author       = EXCLUDED.author,
       categories   = EXCLUDED.categories,
       published_at = EXCLUDED.published_at,
       raw_item     = EXCLUDED.raw_item`

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Upsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("Upsert: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	written := 0
	for _, a := range articles {
		published := a.PublishedAt
		if published.IsZero() {
			published = time.Now().UTC()
		}
		var raw any
		if len(a.RawItem) > 0 {
			raw = string(a.RawItem)
		}
		if _, err := stmt.ExecContext(ctx,
			a.NewspaperID, nullIfEmpty(a.Title), a.Link, nullIfEmpty(a.Snippet),
			nullIfEmpty(a.ContentHTML), nullIfEmpty(a.ImageURL), nullIfEmpty(a.Author),
			pq.Array(a.Categories), published, raw,
		); err != nil {
			return written, fmt.Errorf("Upsert %s: %w", a.Link, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Upsert: commit: %w", err)
	}
	return written, nil
}
