package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

type NewspaperListRepo struct{ db *sql.DB }

func NewNewspaperListRepo(db *sql.DB) repository.NewspaperListRepository {
	return &NewspaperListRepo{db: db}
}

const listColumns = `id, name, newspapers, filter_authors, filter_categories, author, created_at`

func scanList(s rowScanner) (*entity.NewspaperList, error) {
	var l entity.NewspaperList
	var ids pq.Int64Array
	var authors, categories pq.StringArray
	var author sql.NullString
	if err := s.Scan(
		&l.ID, &l.Name, &ids, &authors, &categories, &author, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.NewspaperIDs = []int64(ids)
	if l.NewspaperIDs == nil {
		l.NewspaperIDs = []int64{}
	}
	l.FilterAuthors = []string(authors)
	l.FilterCategories = []string(categories)
	l.Author = author.String
	return &l, nil
}

// filterArray keeps "no filter" as NULL so the column stays distinguishable from '{}'.
func filterArray(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}

func (repo *NewspaperListRepo) Get(ctx context.Context, id string) (*entity.NewspaperList, error) {
	const query = `
SELECT ` + listColumns + `
FROM newspaper_list
WHERE id = $1
LIMIT 1`
	l, err := scanList(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return l, nil
}

func (repo *NewspaperListRepo) List(ctx context.Context) ([]*entity.NewspaperList, error) {
	const query = `
SELECT ` + listColumns + `
FROM newspaper_list
ORDER BY created_at DESC`
	return repo.list(ctx, "List", query)
}

func (repo *NewspaperListRepo) ListByAuthor(ctx context.Context, author string) ([]*entity.NewspaperList, error) {
	const query = `
SELECT ` + listColumns + `
FROM newspaper_list
WHERE author = $1
ORDER BY created_at DESC`
	return repo.list(ctx, "ListByAuthor", query, author)
}

func (repo *NewspaperListRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.NewspaperList, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*entity.NewspaperList, 0, 16)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lists, nil
}

func (repo *NewspaperListRepo) Create(ctx context.Context, l *entity.NewspaperList) error {
	const query = `
INSERT INTO newspaper_list (id, name, newspapers, filter_authors, filter_categories, author)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	err := repo.db.QueryRowContext(ctx, query,
		l.ID, l.Name, pq.Array(l.NewspaperIDs),
		filterArray(l.FilterAuthors), filterArray(l.FilterCategories),
		nullIfEmpty(l.Author),
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewspaperListRepo) Update(ctx context.Context, l *entity.NewspaperList) error {
	const query = `
UPDATE newspaper_list SET
       name              = $1,
       newspapers        = $2,
       filter_authors    = $3,
       filter_categories = $4
WHERE id = $5`
	return repo.exec(ctx, "Update", query,
		l.Name, pq.Array(l.NewspaperIDs),
		filterArray(l.FilterAuthors), filterArray(l.FilterCategories), l.ID,
	)
}

func (repo *NewspaperListRepo) UpdateFilterAuthors(ctx context.Context, id string, authors []string) error {
	const query = `UPDATE newspaper_list SET filter_authors = $1 WHERE id = $2`
	return repo.exec(ctx, "UpdateFilterAuthors", query, filterArray(authors), id)
}

func (repo *NewspaperListRepo) UpdateFilterCategories(ctx context.Context, id string, categories []string) error {
	const query = `UPDATE newspaper_list SET filter_categories = $1 WHERE id = $2`
	return repo.exec(ctx, "UpdateFilterCategories", query, filterArray(categories), id)
}

func (repo *NewspaperListRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM newspaper_list WHERE id = $1`
	return repo.exec(ctx, "Delete", query, id)
}

func (repo *NewspaperListRepo) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
