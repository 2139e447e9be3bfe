// Package retention computes the usage statistics bounded by the retention
// window and performs the pruning run that enforces it.
package retention

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRetention rejects non-positive retention periods before any
// store interaction happens.
var ErrInvalidRetention = errors.New("retention period must be at least 1 day")

// Policy is the process-wide retention configuration, loaded once at startup
// and threaded into each run.
type Policy struct {
	Days int
}

// Validate rejects a non-positive retention period.
func (p Policy) Validate() error {
	if p.Days < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidRetention, p.Days)
	}
	return nil
}

// Cutoff is the pruning/statistics boundary: now minus the retention period,
// in UTC. Rows at or after the cutoff are live; rows before it are pruning
// candidates.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.UTC().Add(-time.Duration(p.Days) * 24 * time.Hour)
}
