package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
)

// GetLeaderboard returns a page of the active snapshot.
func (s *RankingService) GetLeaderboard(ctx context.Context, limit, offset int) ([]rankingdomain.LeaderboardEntry, error) {
	snapshot, err := s.repo.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := snapshot.Entries
	if offset >= len(entries) {
		return []rankingdomain.LeaderboardEntry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// GetForecasterStanding returns one forecaster's row enriched with rank delta
// and percentile standing.
func (s *RankingService) GetForecasterStanding(ctx context.Context, forecasterID string) (*Standing, error) {
	snapshot, err := s.repo.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get standing for forecaster %s: %w", forecasterID, err)
	}

	for _, entry := range snapshot.Entries {
		if entry.ForecasterID != forecasterID {
			continue
		}

		delta, err := rankingdomain.ComputeRankDelta(entry.Rank, entry.PreviousRank)
		if err != nil {
			return nil, fmt.Errorf("failed to compute rank delta for forecaster %s: %w", forecasterID, err)
		}

		percentile, err := rankingdomain.ComputePercentile(entry.Rank, len(snapshot.Entries))
		if err != nil {
			return nil, fmt.Errorf("failed to compute percentile for forecaster %s: %w", forecasterID, err)
		}

		return &Standing{
			Entry:            entry,
			Delta:            delta,
			Percentile:       percentile,
			TotalForecasters: len(snapshot.Entries),
		}, nil
	}

	return nil, fmt.Errorf("forecaster %s is not on the leaderboard: %w", forecasterID, rankingdb.ErrStatsNotFound)
}

// GetForecasterHistory aggregates a forecaster's stored rank history. A
// history-less forecaster yields zero-value stats, not an error.
func (s *RankingService) GetForecasterHistory(ctx context.Context, forecasterID string) (rankingdomain.HistoryStats, error) {
	records, err := s.repo.GetRankHistory(ctx, forecasterID)
	if err != nil {
		return rankingdomain.HistoryStats{}, fmt.Errorf("failed to get history for forecaster %s: %w", forecasterID, err)
	}

	entries := make([]rankingdomain.RankHistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.HistoryEntry())
	}

	return rankingdomain.AggregateHistory(entries), nil
}
