package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// mysqlDialect matches the rsyslog-fed MySQL deployment this engine was
// originally built against. Size metadata comes from information_schema and
// reclamation runs OPTIMIZE TABLE.
type mysqlDialect struct{}

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS fns_logs (
    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    received_timestamp VARCHAR(19) NOT NULL,
    hostname VARCHAR(255) NOT NULL DEFAULT '',
    os VARCHAR(64) NOT NULL DEFAULT '',
    event_timestamp VARCHAR(19) NOT NULL DEFAULT '',
    rule_uuid VARCHAR(64) NOT NULL DEFAULT '',
    rule_name VARCHAR(255) NOT NULL DEFAULT '',
    event_type VARCHAR(32) NOT NULL DEFAULT '',
    source VARCHAR(64) NOT NULL DEFAULT '',
    destination VARCHAR(64) NOT NULL DEFAULT '',
    protocol VARCHAR(16) NOT NULL DEFAULT '',
    source_port INT NOT NULL DEFAULT 0,
    destination_port INT NOT NULL DEFAULT 0,
    action VARCHAR(32) NOT NULL DEFAULT '',
    direction VARCHAR(16) NOT NULL DEFAULT '',
    originator_packets BIGINT NOT NULL DEFAULT 0,
    originator_bytes BIGINT NOT NULL DEFAULT 0,
    reply_packets BIGINT NOT NULL DEFAULT 0,
    reply_bytes BIGINT NOT NULL DEFAULT 0,
    description TEXT NULL,
    KEY idx_fns_logs_received (received_timestamp),
    KEY idx_fns_logs_event_type (event_type)
)`

func (mysqlDialect) name() string { return "mysql" }

func (mysqlDialect) open(p Params) (*sql.DB, error) {
	port := p.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", p.User, p.Password, p.Host, port, p.Database)
	sslMode := strings.ToLower(strings.TrimSpace(p.SSLMode))
	if sslMode == "disable" {
		dsn += "?tls=false"
	} else if sslMode != "" {
		dsn += "?tls=true"
	}
	return sql.Open("mysql", dsn)
}

func (mysqlDialect) setup(_ *sql.DB) error { return nil }

func (mysqlDialect) schema() []string {
	return []string{mysqlSchema}
}

func (mysqlDialect) rebind(query string) string { return query }

func (mysqlDialect) sizes(ctx context.Context, db *sql.DB, p Params) (int64, int64, int64, error) {
	var dbBytes int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(data_length + index_length), 0)
		FROM information_schema.TABLES
		WHERE table_schema = ?
	`, p.Database).Scan(&dbBytes)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read database size: %w", err)
	}

	var tableBytes, tableRows int64
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(data_length + index_length, 0), COALESCE(table_rows, 0)
		FROM information_schema.TABLES
		WHERE table_schema = ? AND table_name = ?
	`, p.Database, tableName).Scan(&tableBytes, &tableRows)
	if errors.Is(err, sql.ErrNoRows) {
		return dbBytes, 0, 0, nil
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read table size: %w", err)
	}
	return dbBytes, tableBytes, tableRows, nil
}

func (mysqlDialect) reclaim(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "OPTIMIZE TABLE "+tableName); err != nil {
		return fmt.Errorf("optimize table: %w", err)
	}
	return nil
}
