package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx so repositories can run
// inside a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ListOptions struct {
	Search string
	Sort   string
	Order  string
	Offset int
	Limit  int
}

// orderBy resolves a client sort key against an allow-list of columns.
// Unknown keys fall back to the default so callers never interpolate input.
func orderBy(opts ListOptions, allowed map[string]string, fallback string) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(opts.Sort))]
	if !ok {
		return fallback
	}
	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(opts.Order), "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

func limitOffset(args []any, opts ListOptions) (string, []any) {
	if opts.Limit <= 0 {
		return "", args
	}
	args = append(args, opts.Limit, opts.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func searchPattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.TrimSpace(search))
	return "%" + escaped + "%"
}

type whereBuilder struct {
	parts []string
	args  []any
}

func (w *whereBuilder) add(clause string, value any) {
	w.args = append(w.args, value)
	w.parts = append(w.parts, fmt.Sprintf(clause, len(w.args)))
}

// addSearch ORs one ILIKE per column against the same placeholder.
func (w *whereBuilder) addSearch(search string, columns ...string) {
	if strings.TrimSpace(search) == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, searchPattern(search))
	placeholder := len(w.args)
	ors := make([]string, 0, len(columns))
	for _, column := range columns {
		ors = append(ors, fmt.Sprintf("%s ILIKE $%d", column, placeholder))
	}
	w.parts = append(w.parts, "("+strings.Join(ors, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.parts) == 0 {
		return "TRUE"
	}
	return strings.Join(w.parts, " AND ")
}
