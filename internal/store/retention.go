package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SizeInfo is store-level metadata about the dataset, read from the
// backend's own accounting rather than by scanning rows.
type SizeInfo struct {
	DatabaseBytes int64
	TableBytes    int64
	TableRows     int64
}

// Sizes reads dataset sizing from store metadata.
func (s *Store) Sizes(ctx context.Context) (SizeInfo, error) {
	dbBytes, tableBytes, tableRows, err := s.d.sizes(ctx, s.db, s.params)
	if err != nil {
		return SizeInfo{}, err
	}
	return SizeInfo{DatabaseBytes: dbBytes, TableBytes: tableBytes, TableRows: tableRows}, nil
}

// CountSince counts rows with received_timestamp at or after ts.
func (s *Store) CountSince(ctx context.Context, ts string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + tableName + " WHERE received_timestamp >= ?"
	if err := s.db.QueryRowContext(ctx, s.d.rebind(q), ts).Scan(&n); err != nil {
		return 0, fmt.Errorf("count since %s: %w", ts, err)
	}
	return n, nil
}

// CountBefore counts rows with received_timestamp strictly before ts.
// These are the pruning candidates for a cutoff of ts.
func (s *Store) CountBefore(ctx context.Context, ts string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + tableName + " WHERE received_timestamp < ?"
	if err := s.db.QueryRowContext(ctx, s.d.rebind(q), ts).Scan(&n); err != nil {
		return 0, fmt.Errorf("count before %s: %w", ts, err)
	}
	return n, nil
}

// Extent returns the earliest and latest received_timestamp at or after
// since. Empty strings mean no rows fall inside the window.
func (s *Store) Extent(ctx context.Context, since string) (oldest, newest string, err error) {
	var min, max sql.NullString
	q := "SELECT MIN(received_timestamp), MAX(received_timestamp) FROM " + tableName +
		" WHERE received_timestamp >= ?"
	if err := s.db.QueryRowContext(ctx, s.d.rebind(q), since).Scan(&min, &max); err != nil {
		return "", "", fmt.Errorf("read extent: %w", err)
	}
	return min.String, max.String, nil
}

// DeleteBefore removes every row with received_timestamp strictly before ts
// in a single transaction and reports how many rows went away. On any error
// the transaction is rolled back and nothing is deleted.
func (s *Store) DeleteBefore(ctx context.Context, ts string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete before %s: begin tx: %w", ts, err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx,
		s.d.rebind("DELETE FROM "+tableName+" WHERE received_timestamp < ?"), ts)
	if err != nil {
		return 0, fmt.Errorf("delete before %s: %w", ts, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete before %s: rows affected: %w", ts, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete before %s: commit: %w", ts, err)
	}
	return deleted, nil
}

// Reclaim runs the dialect's storage-compaction pass (VACUUM or OPTIMIZE
// TABLE). Callers treat failure as non-fatal.
func (s *Store) Reclaim(ctx context.Context) error {
	return s.d.reclaim(ctx, s.db)
}
