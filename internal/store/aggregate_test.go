package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/store"
	"github.com/netglean/fnslog/internal/testutil"
)

// destroyFrom builds a closed connection with the given source and byte
// split. TopTalkers sums originator+reply bytes.
func destroyFrom(source string, origBytes, replyBytes int64) model.LogRecord {
	return testutil.Record(func(r *model.LogRecord) {
		r.Source = source
		r.OriginatorBytes = origBytes
		r.ReplyBytes = replyBytes
	})
}

func TestTopTalkers_GroupsAndOrders(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		destroyFrom("10.0.0.1", 60, 40),   // A: 100
		destroyFrom("10.0.0.2", 300, 200), // B: 500
		destroyFrom("10.0.0.1", 50, 0),    // A: +50
		destroyFrom("10.0.0.3", 10, 0),    // C: 10
	)

	groups, err := st.TopTalkers(context.Background(), store.BySource, store.AggregateOptions{})
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, model.TrafficGroup{Key: "10.0.0.2", TotalBytes: 500, ConnectionCount: 1}, groups[0])
	assert.Equal(t, model.TrafficGroup{Key: "10.0.0.1", TotalBytes: 150, ConnectionCount: 2}, groups[1])
	assert.Equal(t, model.TrafficGroup{Key: "10.0.0.3", TotalBytes: 10, ConnectionCount: 1}, groups[2])
}

func TestTopTalkers_OnlyClosedConnections(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		destroyFrom("10.0.0.1", 100, 0),
		testutil.Record(func(r *model.LogRecord) {
			r.Source = "10.0.0.9"
			r.EventType = model.EventTypeCreate
			r.OriginatorBytes = 9999
		}),
	)

	groups, err := st.TopTalkers(context.Background(), store.BySource, store.AggregateOptions{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "10.0.0.1", groups[0].Key)
}

func TestTopTalkers_LimitTruncates(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		destroyFrom("10.0.0.1", 300, 0),
		destroyFrom("10.0.0.2", 200, 0),
		destroyFrom("10.0.0.3", 100, 0),
	)

	groups, err := st.TopTalkers(context.Background(), store.BySource, store.AggregateOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "10.0.0.1", groups[0].Key)
	assert.Equal(t, "10.0.0.2", groups[1].Key)
}

func TestTopTalkers_TimeWindow(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		testutil.Record(func(r *model.LogRecord) {
			r.Source = "10.0.0.1"
			r.ReceivedTimestamp = "2026-08-01 10:00:00"
			r.OriginatorBytes = 100
			r.ReplyBytes = 0
		}),
		testutil.Record(func(r *model.LogRecord) {
			r.Source = "10.0.0.2"
			r.ReceivedTimestamp = "2026-08-02 10:00:00"
			r.OriginatorBytes = 100
			r.ReplyBytes = 0
		}),
	)

	groups, err := st.TopTalkers(context.Background(), store.BySource, store.AggregateOptions{
		StartTime: "2026-08-02 00:00:00",
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "10.0.0.2", groups[0].Key)
}

func TestTopTalkers_PortDimensionKeepsNumericKey(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		testutil.Record(func(r *model.LogRecord) { r.DestinationPort = 443 }),
		testutil.Record(func(r *model.LogRecord) { r.DestinationPort = 53 }),
	)

	groups, err := st.TopTalkers(context.Background(), store.ByPort, store.AggregateOptions{})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.IsType(t, int64(0), g.Key)
	}
}

func TestTopTalkers_UnknownDimension(t *testing.T) {
	st := testutil.OpenStore(t)
	_, err := st.TopTalkers(context.Background(), store.Dimension("direction"), store.AggregateOptions{})
	require.Error(t, err)
}
