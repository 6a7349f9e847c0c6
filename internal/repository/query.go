package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rpattn/portaldata/internal/domain"
)

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx used by the repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queryBuilder accumulates WHERE conditions and positional arguments. A fetch
// and its meta count are built from the same builder so both see one predicate.
type queryBuilder struct {
	conditions []string
	args       []any
}

func (b *queryBuilder) arg(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *queryBuilder) whereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// pageClause renders ORDER BY / LIMIT / OFFSET. The canonical id column always
// closes the ordering so ties resolve the same way on every page.
func (b *queryBuilder) pageClause(page domain.PageRequest, sortColumns map[string]string, idColumn string) (string, error) {
	direction := "ASC"
	if page.Descending() {
		direction = "DESC"
	}
	order := idColumn + " " + direction
	if page.SortBy != "" {
		column, ok := sortColumns[page.SortBy]
		if !ok {
			return "", fmt.Errorf("%w: cannot sort by %q", domain.ErrInvalidArgument, page.SortBy)
		}
		order = fmt.Sprintf("%s %s, %s ASC", column, direction, idColumn)
	}
	return fmt.Sprintf(" ORDER BY %s LIMIT %s OFFSET %s", order, b.arg(page.PageSize), b.arg(page.Offset())), nil
}

func (b *queryBuilder) count(ctx context.Context, db DBTX, from string) (domain.BaseMeta, error) {
	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+b.whereClause(), b.args...).Scan(&total); err != nil {
		return domain.BaseMeta{}, err
	}
	return domain.BaseMeta{TotalCount: int(total)}, nil
}

// likePattern builds an ILIKE-safe substring pattern.
func likePattern(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(keyword)) + "%"
}

func normalizeSymbols(symbols []string) []string {
	normalized := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if s := domain.NormalizeSymbol(symbol); s != "" {
			normalized = append(normalized, s)
		}
	}
	return normalized
}
