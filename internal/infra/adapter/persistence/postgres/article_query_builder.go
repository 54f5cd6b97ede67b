package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"newsfeed-hub/internal/repository"
)

// ArticleQueryBuilder builds the WHERE/ORDER/LIMIT tail of feed queries in PostgreSQL.
// Array parameters are sent with pq.Array and matched with = ANY(...) and the && overlap operator.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause returns the WHERE clause for q with $N placeholders starting at $1.
// Returns an empty clause when q applies no restriction.
func (qb *ArticleQueryBuilder) BuildWhereClause(q repository.ArticleQuery, tableAlias string) (clause string, args []any) {
	col := func(name string) string {
		if tableAlias == "" {
			return name
		}
		return tableAlias + "." + name
	}

	var conditions []string
	add := func(format string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if len(q.NewspaperIDs) > 0 {
		add(col("newspaper_id")+" = ANY($%d)", pq.Array(q.NewspaperIDs))
	}
	if len(q.Authors) > 0 {
		add(col("author")+" = ANY($%d)", pq.Array(q.Authors))
	}
	if len(q.Categories) > 0 {
		// && is "shares at least one element"
		add(col("categories")+" && $%d::text[]", pq.Array(q.Categories))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Build returns the complete statement tail: WHERE, ORDER BY published_at DESC and LIMIT.
func (qb *ArticleQueryBuilder) Build(q repository.ArticleQuery, tableAlias string) (string, []any) {
	where, args := qb.BuildWhereClause(q, tableAlias)

	orderCol := "published_at"
	idCol := "id"
	if tableAlias != "" {
		orderCol = tableAlias + "." + orderCol
		idCol = tableAlias + "." + idCol
	}

	var b strings.Builder
	if where != "" {
		b.WriteString(where)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "ORDER BY %s DESC NULLS LAST, %s DESC", orderCol, idCol)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, "\nLIMIT $%d", len(args))
	}
	return b.String(), args
}
