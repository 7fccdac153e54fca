package rankingservice

import (
	"context"
	"errors"
	"time"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
	"github.com/calibrank/calibrank/internal/results"
)

// ProcessStatsUpdate recomputes a forecaster's composite score and tier from
// a refreshed stats snapshot and stores the result.
//
// Malformed stats are a domain failure, not an error: the ingestion service
// receives the rejection payload and the message is not retried.
func (s *RankingService) ProcessStatsUpdate(
	ctx context.Context,
	forecasterID string,
	stats rankingdomain.ForecasterStats,
	isPrivate bool,
) (results.OperationResult[rankingevents.ScoreUpdatedPayload, StatsUpdateFailure], error) {
	type op = results.OperationResult[rankingevents.ScoreUpdatedPayload, StatsUpdateFailure]

	return withTelemetry(s, ctx, "ProcessStatsUpdate", func(ctx context.Context) (op, error) {
		if forecasterID == "" {
			return results.NewFailure[rankingevents.ScoreUpdatedPayload](&StatsUpdateFailure{
				Reason: "missing forecaster ID",
			}), nil
		}

		score, err := rankingdomain.ComputeCompositeScore(stats)
		if err != nil {
			var invalid *rankingdomain.InvalidStatsError
			if errors.As(err, &invalid) {
				s.logger.WarnContext(ctx, "Rejected malformed stats",
					attr.ForecasterID("forecaster_id", forecasterID),
					attr.Error(err),
				)
				return results.NewFailure[rankingevents.ScoreUpdatedPayload](&StatsUpdateFailure{
					ForecasterID: forecasterID,
					Reason:       err.Error(),
				}), nil
			}
			return op{}, err
		}

		tier, err := rankingdomain.ClassifyTier(score, s.thresholds)
		if err != nil {
			// The table was validated at construction; failing here means
			// the service state itself is broken.
			return op{}, err
		}

		record := &rankingdb.ForecasterStatsRecord{
			ForecasterID:      forecasterID,
			TotalForecasts:    stats.TotalForecasts,
			ResolvedForecasts: stats.ResolvedForecasts,
			BrierScore:        stats.BrierScore,
			CalibrationScore:  stats.CalibrationScore,
			Accuracy:          stats.Accuracy,
			StreakDays:        stats.StreakDays,
			CompositeScore:    score,
			Tier:              tier,
			IsPrivate:         isPrivate,
		}

		dbStart := time.Now()
		err = s.repo.UpsertStats(ctx, record)
		s.metrics.RecordOperationDuration(ctx, "UpsertStats", time.Since(dbStart))
		if err != nil {
			return op{}, err
		}

		s.logger.InfoContext(ctx, "Forecaster score updated",
			attr.ForecasterID("forecaster_id", forecasterID),
			attr.Float64("composite_score", float64(score)),
			attr.String("tier", string(tier)),
		)

		return results.NewSuccess[rankingevents.ScoreUpdatedPayload, StatsUpdateFailure](&rankingevents.ScoreUpdatedPayload{
			ForecasterID: forecasterID,
			Score:        score,
			Tier:         tier,
		}), nil
	})
}
