package badgeservice

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	badgemetrics "github.com/calibrank/calibrank/internal/observability/metrics/badge"
)

type FakeBadgeRepo struct {
	ListAwardsFunc   func(ctx context.Context, forecasterID string) ([]badgedb.BadgeAwardRecord, error)
	InsertAwardsFunc func(ctx context.Context, awards []badgedb.BadgeAwardRecord) error
}

func (f *FakeBadgeRepo) ListAwards(ctx context.Context, forecasterID string) ([]badgedb.BadgeAwardRecord, error) {
	if f.ListAwardsFunc != nil {
		return f.ListAwardsFunc(ctx, forecasterID)
	}
	return nil, nil
}

func (f *FakeBadgeRepo) InsertAwards(ctx context.Context, awards []badgedb.BadgeAwardRecord) error {
	if f.InsertAwardsFunc != nil {
		return f.InsertAwardsFunc(ctx, awards)
	}
	return nil
}

type FakeStatsReader struct {
	GetStatsFunc       func(ctx context.Context, forecasterID string) (*rankingdb.ForecasterStatsRecord, error)
	GetRankHistoryFunc func(ctx context.Context, forecasterID string) ([]rankingdb.RankHistoryRecord, error)
}

func (f *FakeStatsReader) GetStats(ctx context.Context, forecasterID string) (*rankingdb.ForecasterStatsRecord, error) {
	if f.GetStatsFunc != nil {
		return f.GetStatsFunc(ctx, forecasterID)
	}
	return nil, rankingdb.ErrStatsNotFound
}

func (f *FakeStatsReader) GetRankHistory(ctx context.Context, forecasterID string) ([]rankingdb.RankHistoryRecord, error) {
	if f.GetRankHistoryFunc != nil {
		return f.GetRankHistoryFunc(ctx, forecasterID)
	}
	return nil, nil
}

func (f *FakeStatsReader) UpsertStats(context.Context, *rankingdb.ForecasterStatsRecord) error {
	return nil
}

func (f *FakeStatsReader) ListStats(context.Context) ([]rankingdb.ForecasterStatsRecord, error) {
	return nil, nil
}

func (f *FakeStatsReader) GetActiveSnapshot(context.Context) (*rankingdb.LeaderboardSnapshot, error) {
	return nil, rankingdb.ErrNoActiveSnapshot
}

func (f *FakeStatsReader) SaveSnapshot(context.Context, *rankingdb.LeaderboardSnapshot) error {
	return nil
}

func (f *FakeStatsReader) AppendRankHistory(context.Context, []rankingdb.RankHistoryRecord) error {
	return nil
}

func newTestService(t *testing.T, repo *FakeBadgeRepo, stats *FakeStatsReader) *BadgeService {
	t.Helper()

	return NewBadgeService(
		repo,
		stats,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		badgemetrics.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}
