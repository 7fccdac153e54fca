// Package syncdb persists verification results and source poll schedules.
package syncdb

import (
	"time"

	"github.com/uptrace/bun"

	syncdomain "github.com/calibrank/calibrank/app/modules/sync/domain"
)

// VerificationResultRecord is the stored rollup for one (forecaster, source)
// pair. Checks keep the raw evidence so summaries can be re-derived when the
// TTL moves.
type VerificationResultRecord struct {
	bun.BaseModel `bun:"table:verification_results,alias:vr"`

	ID           int64                          `bun:"id,pk,autoincrement"`
	ForecasterID string                         `bun:"forecaster_id,notnull"`
	SourceID     string                         `bun:"source_id,notnull"`
	Confidence   int                            `bun:"confidence,notnull"`
	Status       syncdomain.VerificationStatus  `bun:"status,notnull"`
	Checks       []syncdomain.VerificationCheck `bun:"checks,type:jsonb"`
	UpdatedAt    time.Time                      `bun:"updated_at,notnull"`
}

// SyncScheduleRecord is one source's poll cadence. NextRunAt drives the
// queue; IntervalSeconds recomputes it after each run.
type SyncScheduleRecord struct {
	bun.BaseModel `bun:"table:sync_schedules,alias:ss"`

	SourceID        string     `bun:"source_id,pk"`
	IntervalSeconds int64      `bun:"interval_seconds,notnull"`
	LastRunAt       *time.Time `bun:"last_run_at"`
	NextRunAt       time.Time  `bun:"next_run_at,notnull"`
}

// Interval returns the poll cadence as a duration.
func (r *SyncScheduleRecord) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}
