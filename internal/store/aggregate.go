package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/query"
)

// Dimension selects the grouping column for a top-talkers aggregation.
type Dimension string

const (
	BySource      Dimension = "source"
	ByDestination Dimension = "destination"
	ByPort        Dimension = "destination_port"
	ByRule        Dimension = "rule_name"
)

func (d Dimension) column() (query.Column, bool) {
	switch d {
	case BySource:
		return query.ColSource, true
	case ByDestination:
		return query.ColDestination, true
	case ByPort:
		return query.ColDestinationPort, true
	case ByRule:
		return query.ColRuleName, true
	default:
		return "", false
	}
}

// Aggregation limits. Callers asking for nothing get the default; callers
// asking for too much are clamped rather than allowed an unbounded scan of
// group space.
const (
	DefaultTopN = 10
	MaxTopN     = 1000
)

// AggregateOptions narrows a top-talkers query. Empty time bounds mean the
// whole table; Limit <= 0 means DefaultTopN.
type AggregateOptions struct {
	StartTime string
	EndTime   string
	Limit     int
}

// TopTalkers sums originator+reply bytes and counts rows per distinct value
// of the grouping dimension, over Destroy events only (open connections have
// no final counters). Results are ordered by total bytes descending and
// truncated to the limit; ties have store-dependent order.
func (s *Store) TopTalkers(ctx context.Context, dim Dimension, opts AggregateOptions) ([]model.TrafficGroup, error) {
	col, ok := dim.column()
	if !ok {
		return nil, fmt.Errorf("unknown aggregation dimension %q", dim)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTopN
	}
	if limit > MaxTopN {
		limit = MaxTopN
	}

	p := query.NewPredicate()
	p.Equals(query.ColEventType, model.EventTypeDestroy)
	p.AtOrAfter(query.ColReceivedTimestamp, strings.TrimSpace(opts.StartTime))
	p.AtOrBefore(query.ColReceivedTimestamp, strings.TrimSpace(opts.EndTime))
	where, args := p.Where()

	q := fmt.Sprintf(`
		SELECT %s,
		       SUM(originator_bytes + reply_bytes) AS total_bytes,
		       COUNT(*) AS connection_count
		FROM %s
		%s
		GROUP BY %s
		ORDER BY total_bytes DESC
		LIMIT ?
	`, col, tableName, where, col)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.d.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate by %s: %w", dim, err)
	}
	defer rows.Close()

	groups := []model.TrafficGroup{}
	for rows.Next() {
		var g model.TrafficGroup
		var key any
		if err := rows.Scan(&key, &g.TotalBytes, &g.ConnectionCount); err != nil {
			return nil, fmt.Errorf("scan %s group: %w", dim, err)
		}
		g.Key = normalizeKey(key)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s groups: %w", dim, err)
	}
	return groups, nil
}

// normalizeKey keeps group keys JSON-friendly: drivers hand back []byte for
// text columns on some backends.
func normalizeKey(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
