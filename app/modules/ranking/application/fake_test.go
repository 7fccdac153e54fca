package rankingservice

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	rankingmetrics "github.com/calibrank/calibrank/internal/observability/metrics/ranking"
)

// ------------------------
// Fake Ranking Repo
// ------------------------

type FakeRankingRepo struct {
	trace []string

	UpsertStatsFunc       func(ctx context.Context, record *rankingdb.ForecasterStatsRecord) error
	GetStatsFunc          func(ctx context.Context, forecasterID string) (*rankingdb.ForecasterStatsRecord, error)
	ListStatsFunc         func(ctx context.Context) ([]rankingdb.ForecasterStatsRecord, error)
	GetActiveSnapshotFunc func(ctx context.Context) (*rankingdb.LeaderboardSnapshot, error)
	SaveSnapshotFunc      func(ctx context.Context, snapshot *rankingdb.LeaderboardSnapshot) error
	AppendRankHistoryFunc func(ctx context.Context, records []rankingdb.RankHistoryRecord) error
	GetRankHistoryFunc    func(ctx context.Context, forecasterID string) ([]rankingdb.RankHistoryRecord, error)
}

func NewFakeRankingRepo() *FakeRankingRepo {
	return &FakeRankingRepo{trace: []string{}}
}

func (f *FakeRankingRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRankingRepo) UpsertStats(ctx context.Context, record *rankingdb.ForecasterStatsRecord) error {
	f.record("UpsertStats")
	if f.UpsertStatsFunc != nil {
		return f.UpsertStatsFunc(ctx, record)
	}
	return nil
}

func (f *FakeRankingRepo) GetStats(ctx context.Context, forecasterID string) (*rankingdb.ForecasterStatsRecord, error) {
	f.record("GetStats")
	if f.GetStatsFunc != nil {
		return f.GetStatsFunc(ctx, forecasterID)
	}
	return nil, rankingdb.ErrStatsNotFound
}

func (f *FakeRankingRepo) ListStats(ctx context.Context) ([]rankingdb.ForecasterStatsRecord, error) {
	f.record("ListStats")
	if f.ListStatsFunc != nil {
		return f.ListStatsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeRankingRepo) GetActiveSnapshot(ctx context.Context) (*rankingdb.LeaderboardSnapshot, error) {
	f.record("GetActiveSnapshot")
	if f.GetActiveSnapshotFunc != nil {
		return f.GetActiveSnapshotFunc(ctx)
	}
	return nil, rankingdb.ErrNoActiveSnapshot
}

func (f *FakeRankingRepo) SaveSnapshot(ctx context.Context, snapshot *rankingdb.LeaderboardSnapshot) error {
	f.record("SaveSnapshot")
	if f.SaveSnapshotFunc != nil {
		return f.SaveSnapshotFunc(ctx, snapshot)
	}
	return nil
}

func (f *FakeRankingRepo) AppendRankHistory(ctx context.Context, records []rankingdb.RankHistoryRecord) error {
	f.record("AppendRankHistory")
	if f.AppendRankHistoryFunc != nil {
		return f.AppendRankHistoryFunc(ctx, records)
	}
	return nil
}

func (f *FakeRankingRepo) GetRankHistory(ctx context.Context, forecasterID string) ([]rankingdb.RankHistoryRecord, error) {
	f.record("GetRankHistory")
	if f.GetRankHistoryFunc != nil {
		return f.GetRankHistoryFunc(ctx, forecasterID)
	}
	return nil, nil
}

// newTestService wires a RankingService with a fake repo and silent
// observability, matching how the other services are tested.
func newTestService(t *testing.T, repo *FakeRankingRepo) *RankingService {
	t.Helper()

	svc, err := NewRankingService(
		repo,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		rankingmetrics.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		rankingdomain.DefaultThresholds,
	)
	if err != nil {
		t.Fatalf("failed to build test service: %v", err)
	}
	return svc
}
