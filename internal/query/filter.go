// Package query turns untrusted request parameters into safe SQL fragments:
// a parameterized WHERE predicate, an allow-listed ORDER BY pair, and
// normalized pagination.
//
// CRITICAL: caller-controlled values are NEVER interpolated into query text.
// The Predicate type only grows fragment and bound-value lists together, so
// an unparameterized predicate cannot be constructed.
package query

import (
	"strings"
)

// Column names a fns_logs column. Only the predeclared constants are ever
// passed by engine code; raw caller input is resolved through the sort
// allow-list instead.
type Column string

const (
	ColID                Column = "id"
	ColReceivedTimestamp Column = "received_timestamp"
	ColHostname          Column = "hostname"
	ColOS                Column = "os"
	ColEventTimestamp    Column = "event_timestamp"
	ColRuleUUID          Column = "rule_uuid"
	ColRuleName          Column = "rule_name"
	ColEventType         Column = "event_type"
	ColSource            Column = "source"
	ColDestination       Column = "destination"
	ColProtocol          Column = "protocol"
	ColSourcePort        Column = "source_port"
	ColDestinationPort   Column = "destination_port"
	ColAction            Column = "action"
	ColDirection         Column = "direction"
	ColOriginatorPackets Column = "originator_packets"
	ColOriginatorBytes   Column = "originator_bytes"
	ColReplyPackets      Column = "reply_packets"
	ColReplyBytes        Column = "reply_bytes"
)

// sortColumns is the allow-list for caller-requested sort columns.
// Anything not listed falls back to received_timestamp.
var sortColumns = map[string]Column{
	"id":                 ColID,
	"received_timestamp": ColReceivedTimestamp,
	"hostname":           ColHostname,
	"os":                 ColOS,
	"event_timestamp":    ColEventTimestamp,
	"rule_uuid":          ColRuleUUID,
	"rule_name":          ColRuleName,
	"event_type":         ColEventType,
	"source":             ColSource,
	"destination":        ColDestination,
	"protocol":           ColProtocol,
	"source_port":        ColSourcePort,
	"destination_port":   ColDestinationPort,
	"action":             ColAction,
	"direction":          ColDirection,
	"originator_packets": ColOriginatorPackets,
	"originator_bytes":   ColOriginatorBytes,
	"reply_packets":      ColReplyPackets,
	"reply_bytes":        ColReplyBytes,
}

// Sort directions after normalization.
const (
	Ascending  = "ASC"
	Descending = "DESC"
)

// Criteria carries one request's untrusted filter and sort input.
// Empty filter strings mean "no constraint on that column".
type Criteria struct {
	Hostname    string
	Source      string
	Destination string
	Action      string
	Protocol    string
	RuleName    string
	StartTime   string
	EndTime     string
	SortBy      string
	SortOrder   string
}

// Predicate accumulates WHERE fragments with their bound values. Fragments
// and values are appended in lockstep; there is no way to add query text
// carrying a caller value without also adding the value to the bind list.
type Predicate struct {
	frags []string
	args  []any
}

// NewPredicate returns an empty predicate. An empty predicate matches all
// rows (Where returns an empty clause).
func NewPredicate() *Predicate {
	return &Predicate{}
}

// Contains adds a case-blind substring match on col. No-op for empty values.
func (p *Predicate) Contains(col Column, v string) {
	if v == "" {
		return
	}
	p.frags = append(p.frags, string(col)+" LIKE ?")
	p.args = append(p.args, "%"+v+"%")
}

// Equals adds an exact-equality match on col. No-op for empty values.
func (p *Predicate) Equals(col Column, v string) {
	if v == "" {
		return
	}
	p.frags = append(p.frags, string(col)+" = ?")
	p.args = append(p.args, v)
}

// AtOrAfter adds an inclusive lower bound on col. No-op for empty values.
func (p *Predicate) AtOrAfter(col Column, v string) {
	if v == "" {
		return
	}
	p.frags = append(p.frags, string(col)+" >= ?")
	p.args = append(p.args, v)
}

// AtOrBefore adds an inclusive upper bound on col. No-op for empty values.
func (p *Predicate) AtOrBefore(col Column, v string) {
	if v == "" {
		return
	}
	p.frags = append(p.frags, string(col)+" <= ?")
	p.args = append(p.args, v)
}

// Before adds a strict upper bound on col. No-op for empty values.
func (p *Predicate) Before(col Column, v string) {
	if v == "" {
		return
	}
	p.frags = append(p.frags, string(col)+" < ?")
	p.args = append(p.args, v)
}

// Where returns the assembled clause (including the leading "WHERE", or ""
// when the predicate is empty) and the bound values in fragment order.
func (p *Predicate) Where() (string, []any) {
	if len(p.frags) == 0 {
		return "", nil
	}
	args := make([]any, len(p.args))
	copy(args, p.args)
	return "WHERE " + strings.Join(p.frags, " AND "), args
}

// Len reports the number of fragments (equal to the number of bound values
// for every constructor except range bounds, which bind one value each).
func (p *Predicate) Len() int {
	return len(p.frags)
}

// Compiled is the output of Compile: a composable WHERE clause with its bind
// list plus the resolved sort pair. SortColumn is always a member of the
// allow-list and SortDirection is always ASC or DESC, so both are safe to
// splice into query text.
type Compiled struct {
	Where         string
	Args          []any
	SortColumn    Column
	SortDirection string
}

// Compile resolves criteria into a Compiled query fragment set.
// Pure transformation, no side effects.
func Compile(c Criteria) Compiled {
	p := NewPredicate()
	p.Contains(ColHostname, strings.TrimSpace(c.Hostname))
	p.Contains(ColSource, strings.TrimSpace(c.Source))
	p.Contains(ColDestination, strings.TrimSpace(c.Destination))
	p.Equals(ColAction, strings.TrimSpace(c.Action))
	p.Equals(ColProtocol, strings.TrimSpace(c.Protocol))
	p.Contains(ColRuleName, strings.TrimSpace(c.RuleName))
	p.AtOrAfter(ColReceivedTimestamp, strings.TrimSpace(c.StartTime))
	p.AtOrBefore(ColReceivedTimestamp, strings.TrimSpace(c.EndTime))

	where, args := p.Where()
	col, dir := ResolveSort(c.SortBy, c.SortOrder)
	return Compiled{
		Where:         where,
		Args:          args,
		SortColumn:    col,
		SortDirection: dir,
	}
}

// ResolveSort maps a requested (column, direction) pair onto the allow-list.
// Unknown columns fall back to received_timestamp; anything that is not
// ASC/DESC (case-insensitive) falls back to DESC.
func ResolveSort(column, direction string) (Column, string) {
	col, ok := sortColumns[column]
	if !ok {
		col = ColReceivedTimestamp
	}
	switch strings.ToUpper(direction) {
	case Ascending:
		return col, Ascending
	case Descending:
		return col, Descending
	default:
		return col, Descending
	}
}
