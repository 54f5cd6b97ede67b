package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

type NewspaperRepo struct{ db *sql.DB }

func NewNewspaperRepo(db *sql.DB) repository.NewspaperRepository {
	return &NewspaperRepo{db: db}
}

const newspaperColumns = `id, name, url, rss, country, description, author, created_at`

func scanNewspaper(s rowScanner) (*entity.Newspaper, error) {
	var n entity.Newspaper
	var url, description, author sql.NullString
	if err := s.Scan(
		&n.ID, &n.Name, &url, &n.RSS, &n.CountryID,
		&description, &author, &n.CreatedAt,
	); err != nil {
		return nil, err
	}
	n.URL = url.String
	n.Description = description.String
	n.Author = author.String
	return &n, nil
}

func (repo *NewspaperRepo) Get(ctx context.Context, id int64) (*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
WHERE id = $1
LIMIT 1`
	n, err := scanNewspaper(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return n, nil
}

func (repo *NewspaperRepo) FindByRSS(ctx context.Context, rss string) (*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
WHERE rss = $1
LIMIT 1`
	n, err := scanNewspaper(repo.db.QueryRowContext(ctx, query, rss))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByRSS: %w", err)
	}
	return n, nil
}

func (repo *NewspaperRepo) List(ctx context.Context) ([]*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
ORDER BY name ASC`
	return repo.list(ctx, "List", query)
}

func (repo *NewspaperRepo) ListByAuthor(ctx context.Context, author string) ([]*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
WHERE author = $1
ORDER BY name ASC`
	return repo.list(ctx, "ListByAuthor", query, author)
}

func (repo *NewspaperRepo) ListByCountry(ctx context.Context, countryID int64) ([]*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
WHERE country = $1
ORDER BY name ASC`
	return repo.list(ctx, "ListByCountry", query, countryID)
}

func (repo *NewspaperRepo) ListWithFeed(ctx context.Context) ([]*entity.Newspaper, error) {
	const query = `
SELECT ` + newspaperColumns + `
FROM newspaper
WHERE rss IS NOT NULL AND rss <> ''
ORDER BY id ASC`
	return repo.list(ctx, "ListWithFeed", query)
}

func (repo *NewspaperRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Newspaper, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	newspapers := make([]*entity.Newspaper, 0, 50)
	for rows.Next() {
		n, err := scanNewspaper(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		newspapers = append(newspapers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newspapers, nil
}

func (repo *NewspaperRepo) Create(ctx context.Context, n *entity.Newspaper) error {
	const query = `
INSERT INTO newspaper (name, url, rss, country, description, author)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		n.Name, nullIfEmpty(n.URL), n.RSS, n.CountryID,
		nullIfEmpty(n.Description), nullIfEmpty(n.Author),
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewspaperRepo) Update(ctx context.Context, n *entity.Newspaper) error {
	const query = `
UPDATE newspaper SET
       name        = $1,
       url         = $2,
       rss         = $3,
       country     = $4,
       description = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		n.Name, nullIfEmpty(n.URL), n.RSS, n.CountryID,
		nullIfEmpty(n.Description), n.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewspaperRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM newspaper WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
