package rankingservice

import (
	"context"

	"github.com/google/uuid"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/results"
)

// Service defines the contract for ranking operations.
type Service interface {
	// --- MUTATIONS ---

	// ProcessStatsUpdate validates and stores a refreshed stats snapshot,
	// recomputing the composite score and tier.
	ProcessStatsUpdate(
		ctx context.Context,
		forecasterID string,
		stats rankingdomain.ForecasterStats,
		isPrivate bool,
	) (results.OperationResult[rankingevents.ScoreUpdatedPayload, StatsUpdateFailure], error)

	// RebuildLeaderboard produces and activates a new ranking snapshot from
	// the current stats table, appending rank history and reporting tier
	// transitions against the prior snapshot.
	RebuildLeaderboard(
		ctx context.Context,
		snapshotID uuid.UUID,
	) (results.OperationResult[RebuildResult, RebuildFailure], error)

	// --- READS ---

	GetLeaderboard(ctx context.Context, limit, offset int) ([]rankingdomain.LeaderboardEntry, error)
	GetForecasterStanding(ctx context.Context, forecasterID string) (*Standing, error)
	GetForecasterHistory(ctx context.Context, forecasterID string) (rankingdomain.HistoryStats, error)

	// GenerateRankHistoryChart renders a forecaster's rank trajectory as PNG.
	GenerateRankHistoryChart(ctx context.Context, forecasterID string) ([]byte, error)

	// ExportLeaderboard renders the active snapshot as an xlsx workbook.
	ExportLeaderboard(ctx context.Context) ([]byte, error)
}
