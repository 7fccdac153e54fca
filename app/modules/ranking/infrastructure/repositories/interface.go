package rankingdb

import (
	"context"
)

// Repository is the persistence contract for the ranking module.
type Repository interface {
	UpsertStats(ctx context.Context, record *ForecasterStatsRecord) error
	GetStats(ctx context.Context, forecasterID string) (*ForecasterStatsRecord, error)
	ListStats(ctx context.Context) ([]ForecasterStatsRecord, error)

	GetActiveSnapshot(ctx context.Context) (*LeaderboardSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *LeaderboardSnapshot) error

	AppendRankHistory(ctx context.Context, records []RankHistoryRecord) error
	GetRankHistory(ctx context.Context, forecasterID string) ([]RankHistoryRecord, error)
}
