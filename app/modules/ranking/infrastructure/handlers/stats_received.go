package rankinghandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// HandleForecastStatsReceived handles the ForecastStatsReceived event.
func (h *RankingHandlers) HandleForecastStatsReceived(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper("HandleForecastStatsReceived", &rankingevents.ForecastStatsReceivedPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			statsPayload := payload.(*rankingevents.ForecastStatsReceivedPayload)

			h.logger.InfoContext(ctx, "Received ForecastStatsReceived event",
				attr.CorrelationIDFromMsg(msg),
				attr.ForecasterID("forecaster_id", statsPayload.ForecasterID),
			)

			result, err := h.service.ProcessStatsUpdate(ctx, statsPayload.ForecasterID, statsPayload.Stats, statsPayload.IsPrivate)
			if err != nil {
				h.logger.ErrorContext(ctx, "Failed to process stats update",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				return nil, fmt.Errorf("failed to process stats update: %w", err)
			}

			if result.Failure != nil {
				h.logger.WarnContext(ctx, "Stats update rejected",
					attr.CorrelationIDFromMsg(msg),
					attr.Any("failure_payload", result.Failure),
				)

				failureMsg, errMsg := h.helpers.CreateResultMessage(
					msg,
					&rankingevents.ScoreUpdateFailedPayload{
						ForecasterID: result.Failure.ForecasterID,
						Reason:       result.Failure.Reason,
					},
					rankingevents.ScoreUpdateFailed,
				)
				if errMsg != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errMsg)
				}

				return []*message.Message{failureMsg}, nil
			}

			if result.Success != nil {
				successMsg, err := h.helpers.CreateResultMessage(
					msg,
					result.Success,
					rankingevents.ScoreUpdated,
				)
				if err != nil {
					return nil, fmt.Errorf("failed to create success message: %w", err)
				}

				return []*message.Message{successMsg}, nil
			}

			h.logger.ErrorContext(ctx, "Unexpected result from ProcessStatsUpdate",
				attr.CorrelationIDFromMsg(msg),
			)
			return nil, fmt.Errorf("unexpected result from service")
		},
	)

	return wrappedHandler(msg)
}
