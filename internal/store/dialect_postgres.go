package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

type postgresDialect struct{}

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS fns_logs (
    id BIGSERIAL PRIMARY KEY,
    received_timestamp VARCHAR(19) NOT NULL,
    hostname TEXT NOT NULL DEFAULT '',
    os TEXT NOT NULL DEFAULT '',
    event_timestamp VARCHAR(19) NOT NULL DEFAULT '',
    rule_uuid TEXT NOT NULL DEFAULT '',
    rule_name TEXT NOT NULL DEFAULT '',
    event_type TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    destination TEXT NOT NULL DEFAULT '',
    protocol TEXT NOT NULL DEFAULT '',
    source_port INTEGER NOT NULL DEFAULT 0,
    destination_port INTEGER NOT NULL DEFAULT 0,
    action TEXT NOT NULL DEFAULT '',
    direction TEXT NOT NULL DEFAULT '',
    originator_packets BIGINT NOT NULL DEFAULT 0,
    originator_bytes BIGINT NOT NULL DEFAULT 0,
    reply_packets BIGINT NOT NULL DEFAULT 0,
    reply_bytes BIGINT NOT NULL DEFAULT 0,
    description TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_fns_logs_received ON fns_logs(received_timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_fns_logs_event_type ON fns_logs(event_type)`,
}

func (postgresDialect) name() string { return "postgres" }

func (postgresDialect) open(p Params) (*sql.DB, error) {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, port, p.User, p.Password, p.Database, sslMode)
	return sql.Open("postgres", dsn)
}

func (postgresDialect) setup(_ *sql.DB) error { return nil }

func (postgresDialect) schema() []string {
	return postgresSchema
}

func (postgresDialect) rebind(query string) string {
	return rebindDollar(query)
}

func (postgresDialect) sizes(ctx context.Context, db *sql.DB, _ Params) (int64, int64, int64, error) {
	var dbBytes int64
	if err := db.QueryRowContext(ctx, "SELECT pg_database_size(current_database())").Scan(&dbBytes); err != nil {
		return 0, 0, 0, fmt.Errorf("read database size: %w", err)
	}

	var tableBytes int64
	if err := db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1)", tableName).Scan(&tableBytes); err != nil {
		return 0, 0, 0, fmt.Errorf("read table size: %w", err)
	}

	// reltuples is the planner's estimate, the same class of metadata MySQL
	// reports in information_schema.
	var tableRows int64
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(reltuples::bigint, 0) FROM pg_class WHERE relname = $1", tableName,
	).Scan(&tableRows)
	if errors.Is(err, sql.ErrNoRows) {
		tableRows = 0
	} else if err != nil {
		return 0, 0, 0, fmt.Errorf("read row estimate: %w", err)
	}
	return dbBytes, tableBytes, tableRows, nil
}

func (postgresDialect) reclaim(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "VACUUM "+tableName); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
