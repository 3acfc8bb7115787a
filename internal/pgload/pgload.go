// Package pgload pushes a processed table into PostgreSQL so downstream
// analysis can query it. Columns are created as text; typing is the
// analyst's concern, fidelity to the processed file is ours.
package pgload

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/epidados/sragpipe/internal/table"
)

// DefaultBatchSize is rows per CopyFrom flush.
const DefaultBatchSize = 5000

// DSN resolves the connection string: SRAGPIPE_PG_DSN, then DATABASE_URL,
// with a .env file loaded first when present.
func DSN() (string, error) {
	_ = godotenv.Load()
	for _, key := range []string{"SRAGPIPE_PG_DSN", "DATABASE_URL"} {
		if dsn := os.Getenv(key); dsn != "" {
			return dsn, nil
		}
	}
	return "", fmt.Errorf("no connection string: set SRAGPIPE_PG_DSN or DATABASE_URL")
}

// Load creates (or replaces) the named table and copies every row in.
// Returns the number of rows written.
func Load(ctx context.Context, dsn, tableName string, t *table.Table) (int64, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return 0, fmt.Errorf("parse connection: %w", err)
	}
	cfg.MaxConns = 4
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	return LoadPool(ctx, pool, tableName, t)
}

// LoadPool is Load against an existing pool; the test harness injects an
// embedded server through this.
func LoadPool(ctx context.Context, pool *pgxpool.Pool, tableName string, t *table.Table) (int64, error) {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = SanitizeIdent(c)
	}

	ident := SanitizeIdent(tableName)
	ddl := buildDDL(ident, cols)
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", ident)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	rows := make([][]interface{}, len(t.Rows))
	for r := range t.Rows {
		vals := make([]interface{}, len(cols))
		for c := range cols {
			v := t.Cell(r, c)
			if table.IsMissing(v) {
				vals[c] = nil
			} else {
				vals[c] = v
			}
		}
		rows[r] = vals
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{ident}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy rows: %w", err)
	}
	return n, nil
}

func buildDDL(ident string, cols []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %q (", ident)
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q TEXT", c)
	}
	b.WriteString(")")
	return b.String()
}

// SanitizeIdent lowercases and strips anything PostgreSQL identifiers choke
// on, keeping letters, digits and underscores.
func SanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "col"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "t_" + out
	}
	return out
}
