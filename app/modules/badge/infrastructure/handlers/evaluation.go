package badgehandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	badgeevents "github.com/calibrank/calibrank/app/modules/badge/domain/events"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// HandleBadgeEvaluationRequested handles the BadgeEvaluationRequested event.
func (h *BadgeHandlers) HandleBadgeEvaluationRequested(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper("HandleBadgeEvaluationRequested", &badgeevents.BadgeEvaluationRequestedPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			evaluationPayload := payload.(*badgeevents.BadgeEvaluationRequestedPayload)
			return h.evaluate(ctx, msg, evaluationPayload.ForecasterID)
		},
	)

	return wrappedHandler(msg)
}

// HandleScoreUpdated re-evaluates badges whenever a forecaster's composite
// score changes. Score updates are the natural trigger since every badge
// input flows from the same stats refresh.
func (h *BadgeHandlers) HandleScoreUpdated(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper("HandleScoreUpdated", &rankingevents.ScoreUpdatedPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			scorePayload := payload.(*rankingevents.ScoreUpdatedPayload)
			return h.evaluate(ctx, msg, scorePayload.ForecasterID)
		},
	)

	return wrappedHandler(msg)
}

func (h *BadgeHandlers) evaluate(ctx context.Context, msg *message.Message, forecasterID string) ([]*message.Message, error) {
	result, err := h.service.EvaluateForecaster(ctx, forecasterID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to evaluate badges",
			attr.CorrelationIDFromMsg(msg),
			attr.Error(err),
		)
		return nil, fmt.Errorf("failed to evaluate badges: %w", err)
	}

	if result.Failure != nil {
		h.logger.WarnContext(ctx, "Badge evaluation failed",
			attr.CorrelationIDFromMsg(msg),
			attr.Any("failure_payload", result.Failure),
		)

		failureMsg, errMsg := h.helpers.CreateResultMessage(
			msg,
			&badgeevents.BadgeEvaluationFailedPayload{
				ForecasterID: result.Failure.ForecasterID,
				Reason:       result.Failure.Reason,
			},
			badgeevents.BadgeEvaluationFailed,
		)
		if errMsg != nil {
			return nil, fmt.Errorf("failed to create failure message: %w", errMsg)
		}

		return []*message.Message{failureMsg}, nil
	}

	if result.Success != nil {
		messages := make([]*message.Message, 0, len(result.Success.NewlyEarned))
		for _, earned := range result.Success.NewlyEarned {
			unlockedMsg, err := h.helpers.CreateResultMessage(
				msg,
				&badgeevents.BadgeUnlockedPayload{
					ForecasterID: result.Success.ForecasterID,
					BadgeID:      earned.BadgeID,
					Rarity:       earned.Rarity,
					Category:     earned.Category,
					EarnedAt:     earned.EarnedAt,
				},
				badgeevents.BadgeUnlocked,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create badge unlocked message: %w", err)
			}
			messages = append(messages, unlockedMsg)
		}
		return messages, nil
	}

	h.logger.ErrorContext(ctx, "Unexpected result from EvaluateForecaster",
		attr.CorrelationIDFromMsg(msg),
	)
	return nil, fmt.Errorf("unexpected result from service")
}
