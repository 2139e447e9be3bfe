package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// dialect abstracts the backend differences the engine has to care about:
// DSN construction, placeholder style, store-level size metadata, and the
// storage-reclamation statement run after pruning.
type dialect interface {
	name() string
	open(p Params) (*sql.DB, error)
	setup(db *sql.DB) error
	schema() []string
	// rebind rewrites ? placeholders into the dialect's native style.
	rebind(query string) string
	// sizes reads database size, table size, and a row count from
	// store-level metadata without scanning rows.
	sizes(ctx context.Context, db *sql.DB, p Params) (dbBytes, tableBytes, tableRows int64, err error)
	// reclaim compacts storage after a deletion. Best-effort by contract.
	reclaim(ctx context.Context, db *sql.DB) error
}

func newDialect(driver string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebindDollar rewrites ? placeholders as $1..$n for PostgreSQL. The engine
// never embeds a literal question mark in query text, so a plain scan is
// sufficient.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
