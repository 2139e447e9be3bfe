package retention

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/netglean/fnslog/internal/model"
	"github.com/netglean/fnslog/internal/store"
)

// Report carries one statistics run. Field names mirror the JSON the query
// API serves. When a run fails, the caller presents a fully-defaulted Report
// with Error set; partial numbers are never handed out as complete.
//
// The per-week and per-month figures use the historical approximate
// divisors (min(4, days/7) whole weeks; days/7/4 months), which degrade to
// zero for short retention windows. That degradation is specified behavior.
type Report struct {
	DatabaseSizeMB  float64 `json:"database_size_mb"`
	TableSizeMB     float64 `json:"table_size_mb"`
	TableRows       int64   `json:"table_rows"`
	TotalRecords    int64   `json:"total_records"`
	OldestTimestamp *string `json:"oldest_timestamp"`
	NewestTimestamp *string `json:"newest_timestamp"`
	AvgPerMinute    float64 `json:"avg_per_minute"`
	AvgPerHour      float64 `json:"avg_per_hour"`
	AvgPerDay       float64 `json:"avg_per_day"`
	AvgPerWeek      float64 `json:"avg_per_week"`
	AvgPerMonth     float64 `json:"avg_per_month"`
	RetentionDays   int     `json:"retention_days"`
	CutoffDate      *string `json:"cutoff_date"`
	Error           string  `json:"error,omitempty"`
}

// DefaultReport is the zero-valued payload for failed runs: every statistic
// defaulted, retention metadata preserved, timestamps null.
func DefaultReport(p Policy) Report {
	return Report{RetentionDays: p.Days}
}

// Engine runs statistics and pruning against one store under one policy.
// Now is injectable for tests; nil means the wall clock.
type Engine struct {
	Store  *store.Store
	Policy Policy
	Log    *zap.Logger
	Now    func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Statistics computes the full usage report bounded by the retention window.
// Any store error aborts the run: the returned Report is the defaulted
// payload and the error describes the first failure.
func (e *Engine) Statistics(ctx context.Context) (Report, error) {
	if err := e.Policy.Validate(); err != nil {
		return DefaultReport(e.Policy), err
	}

	now := e.now().UTC()
	cutoff := e.Policy.Cutoff(now)
	cutoffStr := cutoff.Format(model.TimeLayout)

	sizes, err := e.Store.Sizes(ctx)
	if err != nil {
		return DefaultReport(e.Policy), fmt.Errorf("collect statistics: %w", err)
	}

	total, err := e.Store.CountSince(ctx, cutoffStr)
	if err != nil {
		return DefaultReport(e.Policy), fmt.Errorf("collect statistics: %w", err)
	}

	oldest, newest, err := e.Store.Extent(ctx, cutoffStr)
	if err != nil {
		return DefaultReport(e.Policy), fmt.Errorf("collect statistics: %w", err)
	}

	rep := Report{
		DatabaseSizeMB: roundMB(sizes.DatabaseBytes),
		TableSizeMB:    roundMB(sizes.TableBytes),
		TableRows:      sizes.TableRows,
		TotalRecords:   total,
		RetentionDays:  e.Policy.Days,
		CutoffDate:     &cutoffStr,
	}
	if oldest != "" {
		rep.OldestTimestamp = &oldest
	}
	if newest != "" {
		rep.NewestTimestamp = &newest
	}

	days := e.Policy.Days

	// Per minute over the last hour.
	count, err := e.countWindow(ctx, cutoff, now.Add(-time.Hour))
	if err != nil {
		return DefaultReport(e.Policy), err
	}
	rep.AvgPerMinute = rate(count, 60)

	// Per hour over the last day.
	count, err = e.countWindow(ctx, cutoff, now.Add(-24*time.Hour))
	if err != nil {
		return DefaultReport(e.Policy), err
	}
	rep.AvgPerHour = rate(count, 24)

	// Per day over the last week, clamped to the retention period.
	weekDays := min(7, days)
	count, err = e.countWindow(ctx, cutoff, now.Add(-time.Duration(weekDays)*24*time.Hour))
	if err != nil {
		return DefaultReport(e.Policy), err
	}
	rep.AvgPerDay = rate(count, float64(weekDays))

	// Per week over the last four weeks, clamped to whole retention weeks.
	// Skipped (reported as 0) when the window holds no whole week.
	if monthWeeks := min(4, days/7); monthWeeks > 0 {
		count, err = e.countWindow(ctx, cutoff, now.Add(-time.Duration(monthWeeks)*7*24*time.Hour))
		if err != nil {
			return DefaultReport(e.Policy), err
		}
		rep.AvgPerWeek = rate(count, float64(monthWeeks))
	}

	// Per month over the whole retention window, months approximated as
	// days/7/4.
	if months := float64(days) / 7.0 / 4.0; months > 0 {
		rep.AvgPerMonth = rate(total, months)
	}

	return rep, nil
}

// countWindow counts rows in [max(cutoff, lookBack), now].
func (e *Engine) countWindow(ctx context.Context, cutoff, lookBack time.Time) (int64, error) {
	start := lookBack
	if cutoff.After(start) {
		start = cutoff
	}
	n, err := e.Store.CountSince(ctx, start.Format(model.TimeLayout))
	if err != nil {
		return 0, fmt.Errorf("collect statistics: %w", err)
	}
	return n, nil
}

func rate(count int64, divisor float64) float64 {
	if count <= 0 || divisor <= 0 {
		return 0
	}
	return round2(float64(count) / divisor)
}

func roundMB(bytes int64) float64 {
	return round2(float64(bytes) / 1024 / 1024)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
