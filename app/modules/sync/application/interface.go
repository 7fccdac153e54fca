package syncservice

import (
	"context"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	syncdomain "github.com/calibrank/calibrank/app/modules/sync/domain"
	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	"github.com/calibrank/calibrank/internal/results"
)

// JobInserter is the slice of the river client the service needs. The
// concrete client is injected at module assembly.
type JobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// VerificationFailure is the domain-level failure payload of
// RecordVerification.
type VerificationFailure struct {
	ForecasterID string `json:"forecaster_id"`
	SourceID     string `json:"source_id"`
	Reason       string `json:"reason"`
}

// SourceVerification is one source's rollup for the read side. Status is
// re-derived against the TTL at read time, so stored rollups age out without
// a write.
type SourceVerification struct {
	SourceID  string                         `json:"source_id"`
	Summary   syncdomain.VerificationSummary `json:"summary"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// Service defines the contract for sync operations.
type Service interface {
	// RecordVerification scores and stores a fresh check set for one
	// (forecaster, source) pair.
	RecordVerification(
		ctx context.Context,
		forecasterID string,
		sourceID string,
		checks []syncdomain.VerificationCheck,
	) (results.OperationResult[syncevents.VerificationScoredPayload, VerificationFailure], error)

	// GetForecasterVerifications returns a forecaster's rollups across
	// sources with freshness applied.
	GetForecasterVerifications(ctx context.Context, forecasterID string) ([]SourceVerification, error)

	// ScheduleSource creates or updates a source's poll cadence. The first
	// poll is due immediately.
	ScheduleSource(ctx context.Context, sourceID string, interval time.Duration) error

	// EnqueueDuePolls queues a poll job for every schedule that has come
	// due, advancing each schedule past this run.
	EnqueueDuePolls(ctx context.Context) (int, error)
}
