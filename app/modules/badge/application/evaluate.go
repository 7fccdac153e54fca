package badgeservice

import (
	"context"
	"errors"

	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
	"github.com/calibrank/calibrank/internal/results"
)

// EvaluateForecaster re-runs the badge catalog against a forecaster.
//
// Evaluation is idempotent: badges already held are skipped, and the insert
// ignores conflicts, so a replayed message cannot double-award.
func (s *BadgeService) EvaluateForecaster(
	ctx context.Context,
	forecasterID string,
) (results.OperationResult[EvaluationResult, EvaluationFailure], error) {
	type op = results.OperationResult[EvaluationResult, EvaluationFailure]

	return withTelemetry(s, ctx, "EvaluateForecaster", func(ctx context.Context) (op, error) {
		if forecasterID == "" {
			return results.NewFailure[EvaluationResult](&EvaluationFailure{
				Reason: "missing forecaster ID",
			}), nil
		}

		record, err := s.rankingRepo.GetStats(ctx, forecasterID)
		if err != nil {
			if errors.Is(err, rankingdb.ErrStatsNotFound) {
				return results.NewFailure[EvaluationResult](&EvaluationFailure{
					ForecasterID: forecasterID,
					Reason:       "forecaster has no stats",
				}), nil
			}
			return op{}, err
		}

		historyRecords, err := s.rankingRepo.GetRankHistory(ctx, forecasterID)
		if err != nil {
			return op{}, err
		}
		historyEntries := make([]rankingdomain.RankHistoryEntry, 0, len(historyRecords))
		for _, historyRecord := range historyRecords {
			historyEntries = append(historyEntries, historyRecord.HistoryEntry())
		}

		input := badgedomain.EvalInput{
			Stats:   record.Stats(),
			Score:   record.CompositeScore,
			Tier:    record.Tier,
			History: rankingdomain.AggregateHistory(historyEntries),
		}
		evaluations := badgedomain.EvaluateBadges(input, s.catalog)

		existing, err := s.repo.ListAwards(ctx, forecasterID)
		if err != nil {
			return op{}, err
		}
		held := make(map[badgedomain.BadgeID]bool, len(existing))
		for _, award := range existing {
			held[award.BadgeID] = true
		}

		// One clock read per evaluation so every badge in a batch shares the
		// same EarnedAt.
		earnedAt := s.now().UTC()

		newlyEarned := make([]EarnedBadge, 0)
		awards := make([]badgedb.BadgeAwardRecord, 0)
		for _, evaluation := range evaluations {
			if !evaluation.Earned || held[evaluation.BadgeID] {
				continue
			}
			definition := badgedomain.CatalogByID(evaluation.BadgeID)
			if definition == nil {
				continue
			}
			newlyEarned = append(newlyEarned, EarnedBadge{
				BadgeID:  definition.ID,
				Rarity:   definition.Rarity,
				Category: definition.Category,
				EarnedAt: earnedAt,
			})
			awards = append(awards, badgedb.BadgeAwardRecord{
				ForecasterID: forecasterID,
				BadgeID:      definition.ID,
				EarnedAt:     earnedAt,
			})
		}

		if len(awards) > 0 {
			if err := s.repo.InsertAwards(ctx, awards); err != nil {
				return op{}, err
			}
			for _, earned := range newlyEarned {
				s.metrics.RecordBadgeUnlocked(ctx, string(earned.BadgeID))
			}
			s.logger.InfoContext(ctx, "Badges unlocked",
				attr.ForecasterID("forecaster_id", forecasterID),
				attr.Int("count", len(newlyEarned)),
			)
		}

		return results.NewSuccess[EvaluationResult, EvaluationFailure](&EvaluationResult{
			ForecasterID: forecasterID,
			NewlyEarned:  newlyEarned,
		}), nil
	})
}

// GetForecasterBadges merges the catalog with a forecaster's awards.
func (s *BadgeService) GetForecasterBadges(ctx context.Context, forecasterID string) ([]BadgeStatus, error) {
	awards, err := s.repo.ListAwards(ctx, forecasterID)
	if err != nil {
		return nil, err
	}

	earnedAt := make(map[badgedomain.BadgeID]badgedb.BadgeAwardRecord, len(awards))
	for _, award := range awards {
		earnedAt[award.BadgeID] = award
	}

	statuses := make([]BadgeStatus, 0, len(s.catalog))
	for _, definition := range s.catalog {
		status := BadgeStatus{
			BadgeID:     definition.ID,
			Name:        definition.Name,
			Description: definition.Description,
			Rarity:      definition.Rarity,
			Category:    definition.Category,
		}
		if award, ok := earnedAt[definition.ID]; ok {
			status.Earned = true
			ts := award.EarnedAt
			status.EarnedAt = &ts
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
