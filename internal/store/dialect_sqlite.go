package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var sqliteSchema string

// sqliteDialect is the default backend. Configured with WAL mode for
// concurrent read access and a single writer connection to avoid
// SQLITE_BUSY errors.
type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) open(p Params) (*sql.DB, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("sqlite driver requires a database path")
	}
	return sql.Open("sqlite3", p.Path)
}

func (sqliteDialect) setup(db *sql.DB) error {
	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func (sqliteDialect) schema() []string {
	return []string{sqliteSchema}
}

func (sqliteDialect) rebind(query string) string { return query }

func (sqliteDialect) sizes(ctx context.Context, db *sql.DB, _ Params) (int64, int64, int64, error) {
	var pageCount, pageSize int64
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, 0, 0, fmt.Errorf("read page_count: %w", err)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, 0, 0, fmt.Errorf("read page_size: %w", err)
	}
	dbBytes := pageCount * pageSize

	// dbstat needs a compile-time flag; when it is absent the whole file
	// size stands in for the table size.
	tableBytes := dbBytes
	var viaDbstat int64
	if err := db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = ?", tableName,
	).Scan(&viaDbstat); err == nil && viaDbstat > 0 {
		tableBytes = viaDbstat
	}

	var rows int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&rows); err != nil {
		return 0, 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return dbBytes, tableBytes, rows, nil
}

func (sqliteDialect) reclaim(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
