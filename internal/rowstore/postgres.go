package rowstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres stores each logical table as an append-only relation holding the
// ordered tuple in a text[] column.
type Postgres struct {
	pool Querier
}

// relations whitelists logical table names onto relations; anything else is
// a programming error surfaced at call time.
var relations = map[string]string{
	TableLeads:   "lead_rows",
	TableOptOuts: "optout_rows",
}

// NewPostgres initializes a store backed by pgx.
func NewPostgres(pool Querier) *Postgres {
	if pool == nil {
		panic("rowstore: pgx pool required")
	}
	return &Postgres{pool: pool}
}

// Rows reads the full table in insertion order.
func (p *Postgres) Rows(ctx context.Context, table string) ([][]string, error) {
	rel, ok := relations[table]
	if !ok {
		return nil, fmt.Errorf("rowstore: unknown table %q", table)
	}

	rows, err := p.pool.Query(ctx, fmt.Sprintf("SELECT cols FROM %s ORDER BY id", rel))
	if err != nil {
		return nil, fmt.Errorf("rowstore: read %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cols []string
		if err := rows.Scan(&cols); err != nil {
			return nil, fmt.Errorf("rowstore: scan %s: %w", table, err)
		}
		out = append(out, cols)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rowstore: read %s: %w", table, err)
	}
	return out, nil
}

// Append inserts one row at the end of the table.
func (p *Postgres) Append(ctx context.Context, table string, row []string) error {
	rel, ok := relations[table]
	if !ok {
		return fmt.Errorf("rowstore: unknown table %q", table)
	}

	if _, err := p.pool.Exec(ctx, fmt.Sprintf("INSERT INTO %s (cols) VALUES ($1)", rel), row); err != nil {
		return fmt.Errorf("rowstore: append %s: %w", table, err)
	}
	return nil
}
