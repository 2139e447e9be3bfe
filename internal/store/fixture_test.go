package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netglean/fnslog/internal/query"
	"github.com/netglean/fnslog/internal/store"
	"github.com/netglean/fnslog/internal/testutil"
)

// The fixture holds two closed flows from fw-branch-01 and one blocked
// inbound attempt from fw-hq-02.
func TestFixtureRoundTrip(t *testing.T) {
	st := testutil.OpenStore(t)
	recs := testutil.LoadRecords(t, filepath.Join("testdata", "mixed_traffic.yaml"))
	require.Len(t, recs, 3)
	testutil.Seed(t, st, recs...)
	ctx := context.Background()

	records, total, err := st.List(ctx, query.Criteria{Hostname: "fw-branch-01"}, query.Normalize(1, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, rec := range records {
		assert.Equal(t, "fw-branch-01", rec.Hostname)
	}

	// The dropped probe keeps its description through the store.
	records, _, err = st.List(ctx, query.Criteria{Action: "drop"}, query.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "repeated ssh probe", records[0].Description)

	// Only the closed flows show up in analytics.
	groups, err := st.TopTalkers(ctx, store.ByRule, store.AggregateOptions{})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "allow-web", groups[0].Key)
	assert.EqualValues(t, 87040, groups[0].TotalBytes)
	assert.Equal(t, "allow-dns", groups[1].Key)
	assert.EqualValues(t, 540, groups[1].TotalBytes)
}
