package query

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSort_AllowList(t *testing.T) {
	col, dir := ResolveSort("hostname", "ASC")
	assert.Equal(t, ColHostname, col)
	assert.Equal(t, Ascending, dir)

	col, dir = ResolveSort("reply_bytes", "desc")
	assert.Equal(t, ColReplyBytes, col)
	assert.Equal(t, Descending, dir)
}

func TestResolveSort_UnknownColumnFallsBack(t *testing.T) {
	testCases := []struct {
		name   string
		column string
	}{
		{"empty", ""},
		{"unknown", "no_such_column"},
		{"injection attempt", "received_timestamp; DROP TABLE fns_logs"},
		{"expression", "id, (SELECT 1)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			col, dir := ResolveSort(tc.column, "ASC")
			assert.Equal(t, ColReceivedTimestamp, col)
			assert.Equal(t, Ascending, dir)
		})
	}
}

func TestResolveSort_DirectionFallsBack(t *testing.T) {
	for _, raw := range []string{"", "sideways", "ASC; --", "descending"} {
		_, dir := ResolveSort("id", raw)
		assert.Equal(t, Descending, dir, "direction %q", raw)
	}
	_, dir := ResolveSort("id", "asc")
	assert.Equal(t, Ascending, dir)
}

func TestPredicate_Empty(t *testing.T) {
	p := NewPredicate()
	where, args := p.Where()
	assert.Empty(t, where)
	assert.Nil(t, args)
	assert.Zero(t, p.Len())
}

func TestPredicate_FragmentsAndArgsInLockstep(t *testing.T) {
	p := NewPredicate()
	p.Contains(ColHostname, "fw-01")
	p.Equals(ColAction, "allow")
	p.AtOrAfter(ColReceivedTimestamp, "2026-08-01 00:00:00")
	p.AtOrBefore(ColReceivedTimestamp, "2026-08-02 00:00:00")
	p.Before(ColReceivedTimestamp, "2026-08-03 00:00:00")

	where, args := p.Where()
	assert.Equal(t,
		"WHERE hostname LIKE ? AND action = ? AND received_timestamp >= ? "+
			"AND received_timestamp <= ? AND received_timestamp < ?",
		where)
	assert.Equal(t, []any{
		"%fw-01%",
		"allow",
		"2026-08-01 00:00:00",
		"2026-08-02 00:00:00",
		"2026-08-03 00:00:00",
	}, args)
}

func TestPredicate_EmptyValuesAreNoOps(t *testing.T) {
	p := NewPredicate()
	p.Contains(ColHostname, "")
	p.Equals(ColAction, "")
	p.AtOrAfter(ColReceivedTimestamp, "")
	p.AtOrBefore(ColReceivedTimestamp, "")
	p.Before(ColReceivedTimestamp, "")

	where, args := p.Where()
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestCompile_ValuesNeverInQueryText(t *testing.T) {
	c := Criteria{
		Hostname: "fw-01' OR '1'='1",
		Action:   "allow",
	}
	out := Compile(c)
	assert.NotContains(t, out.Where, "fw-01")
	assert.NotContains(t, out.Where, "allow")
	assert.Len(t, out.Args, 2)
}

func TestCompile_EmptyCriteria(t *testing.T) {
	out := Compile(Criteria{})
	assert.Empty(t, out.Where)
	assert.Empty(t, out.Args)
	assert.Equal(t, ColReceivedTimestamp, out.SortColumn)
	assert.Equal(t, Descending, out.SortDirection)
}

func TestCompile_TrimsWhitespace(t *testing.T) {
	out := Compile(Criteria{Hostname: "  fw-01  ", Protocol: " tcp "})
	assert.Equal(t, []any{"%fw-01%", "tcp"}, out.Args)
}

func TestCompile_Golden(t *testing.T) {
	out := Compile(Criteria{
		Hostname:    "fw-edge",
		Source:      "10.0.0.",
		Destination: "93.184.",
		Action:      "drop",
		Protocol:    "udp",
		RuleName:    "block-inbound",
		StartTime:   "2026-08-01 00:00:00",
		EndTime:     "2026-08-28 23:59:59",
		SortBy:      "originator_bytes",
		SortOrder:   "asc",
	})

	raw, err := json.MarshalIndent(out, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "compile_full_criteria", raw)
}
