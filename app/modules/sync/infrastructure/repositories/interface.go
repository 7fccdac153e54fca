package syncdb

import (
	"context"
	"time"
)

// Repository is the persistence contract of the sync module.
type Repository interface {
	// UpsertVerification stores the latest rollup for a (forecaster, source)
	// pair, replacing any prior one.
	UpsertVerification(ctx context.Context, record *VerificationResultRecord) error
	// ListVerifications returns a forecaster's rollups across sources.
	ListVerifications(ctx context.Context, forecasterID string) ([]VerificationResultRecord, error)

	// UpsertSchedule creates or updates a source's poll cadence.
	UpsertSchedule(ctx context.Context, record *SyncScheduleRecord) error
	// ListDueSchedules returns every schedule whose NextRunAt is not after
	// the given instant.
	ListDueSchedules(ctx context.Context, now time.Time) ([]SyncScheduleRecord, error)
	// MarkRun records a completed poll and advances NextRunAt.
	MarkRun(ctx context.Context, sourceID string, ranAt time.Time) error
}
