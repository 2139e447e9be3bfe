// Package tzconv renders stored UTC timestamps in a caller-chosen zone.
//
// Conversion is fault-tolerant by contract: a timestamp that fails to parse
// or a zone that cannot be resolved yields the original string unchanged and
// a diagnostic log line, never an error to the caller.
package tzconv

import (
	"time"
	// Bundle the zone database so conversion does not depend on host tzdata.
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/netglean/fnslog/internal/model"
)

// Converter converts canonical UTC timestamp strings into a target zone's
// wall-clock time, re-rendered in the same layout (no sub-second precision,
// no offset suffix).
type Converter struct {
	Log *zap.Logger
}

// Convert reinterprets ts (assumed UTC civil time in model.TimeLayout) in
// the zone named by target. On any failure the input comes back untouched.
func (c Converter) Convert(ts, target string) string {
	if ts == "" {
		return ts
	}
	t, err := time.Parse(model.TimeLayout, ts)
	if err != nil {
		c.diag("unparseable timestamp", ts, target, err)
		return ts
	}
	loc, err := time.LoadLocation(target)
	if err != nil {
		c.diag("unknown timezone", ts, target, err)
		return ts
	}
	return t.UTC().In(loc).Format(model.TimeLayout)
}

// ConvertRecord converts the two timestamp-bearing fields of a record in
// place. All other columns keep their stored UTC rendering.
func (c Converter) ConvertRecord(rec *model.LogRecord, target string) {
	rec.ReceivedTimestamp = c.Convert(rec.ReceivedTimestamp, target)
	rec.EventTimestamp = c.Convert(rec.EventTimestamp, target)
}

func (c Converter) diag(msg, ts, target string, err error) {
	if c.Log == nil {
		return
	}
	c.Log.Warn("timezone conversion failed",
		zap.String("reason", msg),
		zap.String("timestamp", ts),
		zap.String("timezone", target),
		zap.Error(err),
	)
}
