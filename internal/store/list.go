package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/query"
)

// recordColumns is the explicit select list for LogRecord scans, in schema
// order.
const recordColumns = "id, received_timestamp, hostname, os, event_timestamp, " +
	"rule_uuid, rule_name, event_type, source, destination, protocol, " +
	"source_port, destination_port, action, direction, " +
	"originator_packets, originator_bytes, reply_packets, reply_bytes, description"

// List runs one filtered, sorted, paginated query plus its matching count.
// Returns the page of records and the total number of matching rows.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) List(ctx context.Context, c query.Criteria, page query.Page) ([]model.LogRecord, int, error) {
	comp := query.Compile(c)

	countSQL := "SELECT COUNT(*) FROM " + tableName
	if comp.Where != "" {
		countSQL += " " + comp.Where
	}
	var total int
	if err := s.db.QueryRowContext(ctx, s.d.rebind(countSQL), comp.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	// SortColumn/SortDirection come from the allow-list resolution, never
	// from raw caller input; only bound values reach the driver as args.
	listSQL := "SELECT " + recordColumns + " FROM " + tableName
	if comp.Where != "" {
		listSQL += " " + comp.Where
	}
	listSQL += fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", comp.SortColumn, comp.SortDirection)
	args := append(comp.Args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, s.d.rebind(listSQL), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	records := []model.LogRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate logs: %w", err)
	}
	return records, total, nil
}

// FilterOptions returns the distinct values present for the dropdown-backed
// columns, each ascending-sorted by the store.
func (s *Store) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	var opts model.FilterOptions
	var err error

	if opts.Hostnames, err = s.distinct(ctx, query.ColHostname); err != nil {
		return model.FilterOptions{}, err
	}
	if opts.Actions, err = s.distinct(ctx, query.ColAction); err != nil {
		return model.FilterOptions{}, err
	}
	if opts.Protocols, err = s.distinct(ctx, query.ColProtocol); err != nil {
		return model.FilterOptions{}, err
	}
	if opts.RuleNames, err = s.distinct(ctx, query.ColRuleName); err != nil {
		return model.FilterOptions{}, err
	}
	return opts, nil
}

func (s *Store) distinct(ctx context.Context, col query.Column) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s ASC", col, tableName, col)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", col, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", col, err)
	}
	return values, nil
}

func scanRecord(rows *sql.Rows) (model.LogRecord, error) {
	var rec model.LogRecord
	var description sql.NullString
	if err := rows.Scan(
		&rec.ID, &rec.ReceivedTimestamp, &rec.Hostname, &rec.OS, &rec.EventTimestamp,
		&rec.RuleUUID, &rec.RuleName, &rec.EventType, &rec.Source, &rec.Destination,
		&rec.Protocol, &rec.SourcePort, &rec.DestinationPort, &rec.Action, &rec.Direction,
		&rec.OriginatorPackets, &rec.OriginatorBytes, &rec.ReplyPackets, &rec.ReplyBytes,
		&description,
	); err != nil {
		return model.LogRecord{}, fmt.Errorf("scan log record: %w", err)
	}
	rec.Description = description.String
	return rec, nil
}
