package retention_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/retention"
	"github.com/netglean/fnslog/internal/testutil"
)

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, retention.Policy{Days: 1}.Validate())
	assert.NoError(t, retention.Policy{Days: 365}.Validate())

	err := retention.Policy{Days: 0}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, retention.ErrInvalidRetention)
	assert.ErrorIs(t, retention.Policy{Days: -7}.Validate(), retention.ErrInvalidRetention)
}

func TestPolicy_Cutoff(t *testing.T) {
	clock := testutil.FixedClock(t, "2026-08-28 12:00:00")
	cutoff := retention.Policy{Days: 30}.Cutoff(clock())
	assert.Equal(t, "2026-07-29 12:00:00", cutoff.Format(model.TimeLayout))
}

func TestPrune_DryRunDeletesNothing(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		recAt("2026-07-28 12:00:00"), // 31 days old
		recAt("2026-07-30 12:00:00"), // 29 days old
	)
	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: 30},
		Now:    testutil.FixedClock(t, "2026-08-28 12:00:00"),
	}

	res, err := eng.Prune(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.EqualValues(t, 1, res.CandidateRows)
	assert.Zero(t, res.RowsDeleted)
	assert.False(t, res.Reclaimed)

	remaining, err := st.CountSince(context.Background(), "2026-01-01 00:00:00")
	require.NoError(t, err)
	assert.EqualValues(t, 2, remaining)
}

func TestPrune_DeletesOnlyExpiredRows(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		recAt("2026-07-28 12:00:00"), // 31 days old: expired
		recAt("2026-07-30 12:00:00"), // 29 days old: retained
	)
	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: 30},
		Now:    testutil.FixedClock(t, "2026-08-28 12:00:00"),
	}
	ctx := context.Background()

	res, err := eng.Prune(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.CandidateRows)
	assert.EqualValues(t, 1, res.RowsDeleted)
	assert.Equal(t, "2026-07-29 12:00:00", res.Cutoff)
	assert.True(t, res.Reclaimed)

	remaining, err := st.CountSince(ctx, "2026-01-01 00:00:00")
	require.NoError(t, err)
	assert.EqualValues(t, 1, remaining)

	// Second run finds nothing: pruning is idempotent under a fixed clock.
	res, err = eng.Prune(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, res.CandidateRows)
	assert.Zero(t, res.RowsDeleted)
	assert.False(t, res.Reclaimed)
}

func TestPrune_InvalidPolicy(t *testing.T) {
	eng := &retention.Engine{
		Store:  testutil.OpenStore(t),
		Policy: retention.Policy{Days: 0},
	}
	_, err := eng.Prune(context.Background(), false)
	assert.ErrorIs(t, err, retention.ErrInvalidRetention)
}

func TestStatistics_Rates(t *testing.T) {
	st := testutil.OpenStore(t)

	// 24 rows in the last hour, plus one expired row outside the window.
	recs := []model.LogRecord{recAt("2026-06-01 00:00:00")}
	for i := 0; i < 24; i++ {
		recs = append(recs, recAt(fmt.Sprintf("2026-08-28 11:30:%02d", i)))
	}
	testutil.Seed(t, st, recs...)

	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: 30},
		Now:    testutil.FixedClock(t, "2026-08-28 12:00:00"),
	}

	rep, err := eng.Statistics(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 25, rep.TableRows)
	assert.EqualValues(t, 24, rep.TotalRecords)
	assert.Equal(t, 30, rep.RetentionDays)
	require.NotNil(t, rep.CutoffDate)
	assert.Equal(t, "2026-07-29 12:00:00", *rep.CutoffDate)

	require.NotNil(t, rep.OldestTimestamp)
	require.NotNil(t, rep.NewestTimestamp)
	assert.Equal(t, "2026-08-28 11:30:00", *rep.OldestTimestamp)
	assert.Equal(t, "2026-08-28 11:30:23", *rep.NewestTimestamp)

	assert.InDelta(t, 0.4, rep.AvgPerMinute, 1e-9) // 24 / 60 minutes
	assert.InDelta(t, 1.0, rep.AvgPerHour, 1e-9)   // 24 / 24 hours
	assert.InDelta(t, 3.43, rep.AvgPerDay, 1e-9)   // 24 / 7 days
	assert.InDelta(t, 6.0, rep.AvgPerWeek, 1e-9)   // 24 / 4 weeks
	assert.InDelta(t, 22.4, rep.AvgPerMonth, 1e-9) // 24 / (30/28 months)

	assert.GreaterOrEqual(t, rep.DatabaseSizeMB, 0.0)
}

func TestStatistics_ShortRetentionClampsDivisors(t *testing.T) {
	st := testutil.OpenStore(t)
	testutil.Seed(t, st,
		recAt("2026-08-28 11:00:00"),
		recAt("2026-08-27 11:00:00"),
	)
	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: 2},
		Now:    testutil.FixedClock(t, "2026-08-28 12:00:00"),
	}

	rep, err := eng.Statistics(context.Background())
	require.NoError(t, err)

	// Per day divides by min(7, days) = 2; the weekly bucket is skipped
	// because the window holds no whole week.
	assert.InDelta(t, 1.0, rep.AvgPerDay, 1e-9)
	assert.Zero(t, rep.AvgPerWeek)
	// Months = 2/7/4 is tiny but positive: 2 / 0.0714... = 28.
	assert.InDelta(t, 28.0, rep.AvgPerMonth, 1e-9)
}

func TestStatistics_StoreFailureYieldsDefaultReport(t *testing.T) {
	st := testutil.OpenStore(t)
	require.NoError(t, st.Close())

	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: 30},
		Now:    testutil.FixedClock(t, "2026-08-28 12:00:00"),
	}

	rep, err := eng.Statistics(context.Background())
	require.Error(t, err)
	assert.Equal(t, retention.DefaultReport(retention.Policy{Days: 30}), rep)
	assert.Zero(t, rep.TotalRecords)
	assert.Nil(t, rep.OldestTimestamp)
	assert.Equal(t, 30, rep.RetentionDays)
}

func TestStatistics_InvalidPolicy(t *testing.T) {
	eng := &retention.Engine{
		Store:  testutil.OpenStore(t),
		Policy: retention.Policy{Days: -1},
	}
	_, err := eng.Statistics(context.Background())
	assert.True(t, errors.Is(err, retention.ErrInvalidRetention))
}

func recAt(ts string) model.LogRecord {
	return testutil.Record(func(r *model.LogRecord) { r.ReceivedTimestamp = ts })
}
