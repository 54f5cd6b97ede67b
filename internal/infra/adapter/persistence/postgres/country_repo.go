package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
)

type CountryRepo struct{ db *sql.DB }

func NewCountryRepo(db *sql.DB) repository.CountryRepository {
	return &CountryRepo{db: db}
}

const countryColumns = `id, name, full_name, short, forum, author, created_at`

func scanCountry(s rowScanner) (*entity.Country, error) {
	var c entity.Country
	var forum, author sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &c.FullName, &c.Short, &forum, &author, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Forum = forum.String
	c.Author = author.String
	return &c, nil
}

func (repo *CountryRepo) Get(ctx context.Context, id int64) (*entity.Country, error) {
	const query = `
SELECT ` + countryColumns + `
FROM country
WHERE id = $1
LIMIT 1`
	c, err := scanCountry(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (repo *CountryRepo) FindByShort(ctx context.Context, short string) (*entity.Country, error) {
	const query = `
SELECT ` + countryColumns + `
FROM country
WHERE lower(short) = lower($1)
LIMIT 1`
	c, err := scanCountry(repo.db.QueryRowContext(ctx, query, short))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByShort: %w", err)
	}
	return c, nil
}

func (repo *CountryRepo) List(ctx context.Context) ([]*entity.Country, error) {
	const query = `
SELECT ` + countryColumns + `
FROM country
ORDER BY name ASC`
	return repo.list(ctx, "List", query)
}

func (repo *CountryRepo) ListByAuthor(ctx context.Context, author string) ([]*entity.Country, error) {
	const query = `
SELECT ` + countryColumns + `
FROM country
WHERE author = $1
ORDER BY name ASC`
	return repo.list(ctx, "ListByAuthor", query, author)
}

func (repo *CountryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Country, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	countries := make([]*entity.Country, 0, 32)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return countries, nil
}

func (repo *CountryRepo) Options(ctx context.Context) ([]entity.CountryOption, error) {
	const query = `SELECT id, name FROM country ORDER BY name ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	opts := make([]entity.CountryOption, 0, 32)
	for rows.Next() {
		var o entity.CountryOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("Options: %w", err)
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Options: %w", err)
	}
	return opts, nil
}

func (repo *CountryRepo) Create(ctx context.Context, c *entity.Country) error {
	const query = `
INSERT INTO country (name, full_name, short, forum, author)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		c.Name, c.FullName, c.Short,
		nullIfEmpty(c.Forum), nullIfEmpty(c.Author),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CountryRepo) Update(ctx context.Context, c *entity.Country) error {
	const query = `
UPDATE country SET
       name      = $1,
       full_name = $2,
       short     = $3,
       forum     = $4
WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query,
		c.Name, c.FullName, c.Short, nullIfEmpty(c.Forum), c.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *CountryRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM country WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
