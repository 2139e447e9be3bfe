// Package store is the record store adapter: it owns the fns_logs table and
// runs every parameterized query the engines need against a relational
// backend (SQLite, MySQL, or PostgreSQL).
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// tableName is the single append-mostly table this engine operates on.
const tableName = "fns_logs"

// Params describes how to reach the backing store. Path is used by the
// sqlite driver; the network fields by mysql/postgres.
type Params struct {
	Driver   string // sqlite | mysql | postgres
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Path     string
	SSLMode  string
}

// Store wraps a pooled database handle plus the dialect for its backend.
// Each operation checks a connection out of the pool for its own duration;
// nothing is held across operations.
type Store struct {
	db     *sql.DB
	d      dialect
	params Params
}

// Open connects to the configured backend, applies per-dialect connection
// settings, and creates the fns_logs schema if it does not exist yet.
// Idempotent: safe to call against an already-initialized database.
func Open(p Params) (*Store, error) {
	d, err := newDialect(p.Driver)
	if err != nil {
		return nil, err
	}

	db, err := d.open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name(), err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", d.name(), err)
	}

	if err := d.setup(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s connection: %w", d.name(), err)
	}

	for _, stmt := range d.schema() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s schema: %w", d.name(), err)
		}
	}

	return &Store{db: db, d: d, params: p}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver reports the active dialect name.
func (s *Store) Driver() string {
	return s.d.name()
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
