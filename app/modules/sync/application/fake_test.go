package syncservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	syncmetrics "github.com/calibrank/calibrank/internal/observability/metrics/sync"
)

type FakeSyncRepo struct {
	UpsertVerificationFunc func(ctx context.Context, record *syncdb.VerificationResultRecord) error
	ListVerificationsFunc  func(ctx context.Context, forecasterID string) ([]syncdb.VerificationResultRecord, error)
	UpsertScheduleFunc     func(ctx context.Context, record *syncdb.SyncScheduleRecord) error
	ListDueSchedulesFunc   func(ctx context.Context, now time.Time) ([]syncdb.SyncScheduleRecord, error)
	MarkRunFunc            func(ctx context.Context, sourceID string, ranAt time.Time) error
}

func (f *FakeSyncRepo) UpsertVerification(ctx context.Context, record *syncdb.VerificationResultRecord) error {
	if f.UpsertVerificationFunc != nil {
		return f.UpsertVerificationFunc(ctx, record)
	}
	return nil
}

func (f *FakeSyncRepo) ListVerifications(ctx context.Context, forecasterID string) ([]syncdb.VerificationResultRecord, error) {
	if f.ListVerificationsFunc != nil {
		return f.ListVerificationsFunc(ctx, forecasterID)
	}
	return nil, nil
}

func (f *FakeSyncRepo) UpsertSchedule(ctx context.Context, record *syncdb.SyncScheduleRecord) error {
	if f.UpsertScheduleFunc != nil {
		return f.UpsertScheduleFunc(ctx, record)
	}
	return nil
}

func (f *FakeSyncRepo) ListDueSchedules(ctx context.Context, now time.Time) ([]syncdb.SyncScheduleRecord, error) {
	if f.ListDueSchedulesFunc != nil {
		return f.ListDueSchedulesFunc(ctx, now)
	}
	return nil, nil
}

func (f *FakeSyncRepo) MarkRun(ctx context.Context, sourceID string, ranAt time.Time) error {
	if f.MarkRunFunc != nil {
		return f.MarkRunFunc(ctx, sourceID, ranAt)
	}
	return nil
}

type FakeJobInserter struct {
	inserted []river.JobArgs

	InsertFunc func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

func (f *FakeJobInserter) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.inserted = append(f.inserted, args)
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, args, opts)
	}
	return &rivertype.JobInsertResult{}, nil
}

func newTestService(t *testing.T, repo *FakeSyncRepo, jobs *FakeJobInserter) *SyncService {
	t.Helper()

	return NewSyncService(
		repo,
		nil,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		syncmetrics.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		jobs,
		rate.NewLimiter(rate.Inf, 1),
		30*24*time.Hour,
	)
}
