// Package testutil provides the shared fixtures for store-backed tests: a
// throwaway sqlite store, a record builder with sane defaults, and YAML
// fixture loading.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/store"
)

// OpenStore opens a sqlite store in a per-test temp directory with the
// schema applied.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.Params{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "fns_logs.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// Record builds a connection record with plausible defaults. Pass mutators
// to override fields per test.
func Record(muts ...func(*model.LogRecord)) model.LogRecord {
	rec := model.LogRecord{
		ReceivedTimestamp: "2026-08-01 12:00:00",
		Hostname:          "fw-test-01",
		OS:                "FNS 9.1",
		EventTimestamp:    "2026-08-01 11:59:58",
		RuleUUID:          uuid.NewString(),
		RuleName:          "allow-outbound",
		EventType:         model.EventTypeDestroy,
		Source:            "10.0.0.10",
		Destination:       "93.184.216.34",
		Protocol:          "tcp",
		SourcePort:        49152,
		DestinationPort:   443,
		Action:            "allow",
		Direction:         "outbound",
		OriginatorPackets: 12,
		OriginatorBytes:   1480,
		ReplyPackets:      10,
		ReplyBytes:        5200,
	}
	for _, m := range muts {
		m(&rec)
	}
	return rec
}

// Seed inserts every record, failing the test on the first error.
func Seed(t *testing.T, st *store.Store, recs ...model.LogRecord) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range recs {
		require.NoError(t, st.Insert(ctx, rec))
	}
}

// LoadRecords reads a YAML fixture file of records from testdata.
func LoadRecords(t *testing.T, path string) []model.LogRecord {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []model.LogRecord
	require.NoError(t, yaml.Unmarshal(raw, &recs))
	return recs
}

// FixedClock returns a Now func pinned to the given canonical timestamp.
func FixedClock(t *testing.T, ts string) func() time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(model.TimeLayout, ts, time.UTC)
	require.NoError(t, err)
	return func() time.Time { return parsed }
}
