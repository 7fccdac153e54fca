package rankingservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
	"github.com/calibrank/calibrank/internal/results"
)

// RebuildLeaderboard produces a new ranking snapshot from the stored stats.
//
// The previous active snapshot supplies each forecaster's previousRank and
// prior tier; forecasters absent from it are newly ranked. The new snapshot,
// its rank-history rows, and the retirement of the old snapshot are persisted
// before any transition is reported.
func (s *RankingService) RebuildLeaderboard(
	ctx context.Context,
	snapshotID uuid.UUID,
) (results.OperationResult[RebuildResult, RebuildFailure], error) {
	type op = results.OperationResult[RebuildResult, RebuildFailure]

	return withTelemetry(s, ctx, "RebuildLeaderboard", func(ctx context.Context) (op, error) {
		records, err := s.repo.ListStats(ctx)
		if err != nil {
			return op{}, err
		}

		if len(records) == 0 {
			return results.NewFailure[RebuildResult](&RebuildFailure{
				SnapshotID: snapshotID,
				Reason:     "no forecaster stats to rank",
			}), nil
		}

		rated := make([]rankingdomain.RatedForecaster, 0, len(records))
		for _, record := range records {
			rated = append(rated, rankingdomain.RatedForecaster{
				ForecasterID: record.ForecasterID,
				Stats:        record.Stats(),
				Score:        record.CompositeScore,
				Tier:         record.Tier,
				IsPrivate:    record.IsPrivate,
			})
		}

		previousRanks := make(map[string]int)
		previousTiers := make(map[string]rankingdomain.Tier)

		current, err := s.repo.GetActiveSnapshot(ctx)
		switch {
		case err == nil:
			for _, entry := range current.Entries {
				previousRanks[entry.ForecasterID] = entry.Rank
				previousTiers[entry.ForecasterID] = entry.Tier
			}
		case errors.Is(err, rankingdb.ErrNoActiveSnapshot):
			// First rebuild: everyone is newly ranked.
		default:
			return op{}, err
		}

		entries := rankingdomain.BuildLeaderboard(rated, previousRanks)

		transitions := make([]TierTransitionEvent, 0)
		for _, entry := range entries {
			prevTier, ranked := previousTiers[entry.ForecasterID]
			if !ranked {
				continue
			}
			if transition := rankingdomain.TierTransitionBetween(prevTier, entry.Tier); transition != nil {
				transitions = append(transitions, TierTransitionEvent{
					ForecasterID: entry.ForecasterID,
					Transition:   *transition,
				})
				s.metrics.RecordTierTransition(ctx, string(transition.From), string(transition.To), transition.Promoted)
			}
		}

		dbStart := time.Now()
		err = s.repo.SaveSnapshot(ctx, &rankingdb.LeaderboardSnapshot{
			SnapshotID: snapshotID,
			Entries:    entries,
		})
		s.metrics.RecordOperationDuration(ctx, "SaveSnapshot", time.Since(dbStart))
		if err != nil {
			return op{}, err
		}

		snapshotTime := s.now().UTC()
		history := make([]rankingdb.RankHistoryRecord, 0, len(entries))
		for _, entry := range entries {
			history = append(history, rankingdb.RankHistoryRecord{
				ForecasterID:     entry.ForecasterID,
				Date:             snapshotTime,
				Rank:             entry.Rank,
				Score:            entry.CompositeScore,
				Tier:             entry.Tier,
				TotalForecasters: len(entries),
			})
		}
		if err := s.repo.AppendRankHistory(ctx, history); err != nil {
			return op{}, err
		}

		s.metrics.RecordLeaderboardSize(ctx, len(entries))
		s.logger.InfoContext(ctx, "Leaderboard rebuilt",
			attr.String("snapshot_id", snapshotID.String()),
			attr.Int("entries", len(entries)),
			attr.Int("tier_transitions", len(transitions)),
		)

		return results.NewSuccess[RebuildResult, RebuildFailure](&RebuildResult{
			SnapshotID:  snapshotID,
			Entries:     entries,
			Transitions: transitions,
		}), nil
	})
}
