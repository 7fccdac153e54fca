package rankinghandlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	rankingservice "github.com/calibrank/calibrank/app/modules/ranking/application"
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/eventutil"
	rankingmetrics "github.com/calibrank/calibrank/internal/observability/metrics/ranking"
	"github.com/calibrank/calibrank/internal/results"
)

// FakeRankingService satisfies rankingservice.Service with per-method
// overrides.
type FakeRankingService struct {
	ProcessStatsUpdateFunc func(ctx context.Context, forecasterID string, stats rankingdomain.ForecasterStats, isPrivate bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error)
	RebuildLeaderboardFunc func(ctx context.Context, snapshotID uuid.UUID) (results.OperationResult[rankingservice.RebuildResult, rankingservice.RebuildFailure], error)
}

func (f *FakeRankingService) ProcessStatsUpdate(ctx context.Context, forecasterID string, stats rankingdomain.ForecasterStats, isPrivate bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error) {
	if f.ProcessStatsUpdateFunc != nil {
		return f.ProcessStatsUpdateFunc(ctx, forecasterID, stats, isPrivate)
	}
	return results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure]{}, nil
}

func (f *FakeRankingService) RebuildLeaderboard(ctx context.Context, snapshotID uuid.UUID) (results.OperationResult[rankingservice.RebuildResult, rankingservice.RebuildFailure], error) {
	if f.RebuildLeaderboardFunc != nil {
		return f.RebuildLeaderboardFunc(ctx, snapshotID)
	}
	return results.OperationResult[rankingservice.RebuildResult, rankingservice.RebuildFailure]{}, nil
}

func (f *FakeRankingService) GetLeaderboard(context.Context, int, int) ([]rankingdomain.LeaderboardEntry, error) {
	return nil, nil
}

func (f *FakeRankingService) GetForecasterStanding(context.Context, string) (*rankingservice.Standing, error) {
	return nil, nil
}

func (f *FakeRankingService) GetForecasterHistory(context.Context, string) (rankingdomain.HistoryStats, error) {
	return rankingdomain.HistoryStats{}, nil
}

func (f *FakeRankingService) GenerateRankHistoryChart(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (f *FakeRankingService) ExportLeaderboard(context.Context) ([]byte, error) {
	return nil, nil
}

func newTestHandlers(service rankingservice.Service) Handlers {
	return NewRankingHandlers(
		service,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
		eventutil.NewHelpers(),
		rankingmetrics.NoopMetrics{},
	)
}
