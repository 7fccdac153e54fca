package syncservice

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// PollArgs is the river job payload for one source poll.
type PollArgs struct {
	SourceID string `json:"source_id"`
}

// Kind identifies the job type in the river job table.
func (PollArgs) Kind() string { return "sync_poll" }

// EnqueueDueArgs is the periodic sweeper job that turns due schedules into
// poll jobs.
type EnqueueDueArgs struct{}

func (EnqueueDueArgs) Kind() string { return "sync_enqueue_due" }

// ScheduleSource creates or updates a source's poll cadence.
func (s *SyncService) ScheduleSource(ctx context.Context, sourceID string, interval time.Duration) error {
	if sourceID == "" {
		return fmt.Errorf("source ID is required")
	}
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	err := s.repo.UpsertSchedule(ctx, &syncdb.SyncScheduleRecord{
		SourceID:        sourceID,
		IntervalSeconds: int64(interval / time.Second),
		NextRunAt:       s.now().UTC(),
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Source poll scheduled",
		attr.String("source_id", sourceID),
		attr.Duration("interval", interval),
	)
	return nil
}

// EnqueueDuePolls queues one poll job per due schedule. Each schedule is
// advanced as it is enqueued so a crashed worker re-polls on the next
// cadence rather than immediately.
func (s *SyncService) EnqueueDuePolls(ctx context.Context) (int, error) {
	now := s.now().UTC()
	due, err := s.repo.ListDueSchedules(ctx, now)
	if err != nil {
		return 0, err
	}

	var enqueued int
	for _, schedule := range due {
		if _, err := s.jobs.Insert(ctx, PollArgs{SourceID: schedule.SourceID}, nil); err != nil {
			return enqueued, fmt.Errorf("failed to enqueue poll for source %s: %w", schedule.SourceID, err)
		}
		if err := s.repo.MarkRun(ctx, schedule.SourceID, now); err != nil {
			return enqueued, err
		}
		enqueued++
	}

	if enqueued > 0 {
		s.logger.InfoContext(ctx, "Enqueued due source polls", attr.Int("count", enqueued))
	}
	return enqueued, nil
}

// PollWorker executes one source poll: it emits a verification request for
// the ingestion side to act on. The limiter throttles fan-out across the
// whole worker pool.
type PollWorker struct {
	river.WorkerDefaults[PollArgs]
	Service *SyncService
}

func (w *PollWorker) Work(ctx context.Context, job *river.Job[PollArgs]) error {
	s := w.Service

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	msg, err := s.helpers.CreateNewMessage(&syncevents.VerificationRequestedPayload{
		SourceID: job.Args.SourceID,
	}, syncevents.VerificationRequested)
	if err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}

	if err := s.EventBus.Publish(syncevents.VerificationRequested, msg); err != nil {
		return fmt.Errorf("failed to publish verification request for source %s: %w", job.Args.SourceID, err)
	}

	s.logger.InfoContext(ctx, "Requested source verification",
		attr.String("source_id", job.Args.SourceID),
	)
	return nil
}

// EnqueueDueWorker runs the periodic schedule sweep.
type EnqueueDueWorker struct {
	river.WorkerDefaults[EnqueueDueArgs]
	Service *SyncService
}

func (w *EnqueueDueWorker) Work(ctx context.Context, _ *river.Job[EnqueueDueArgs]) error {
	_, err := w.Service.EnqueueDuePolls(ctx)
	return err
}
