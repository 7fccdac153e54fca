package rankinghandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// HandleLeaderboardRebuildRequested handles the LeaderboardRebuildRequested
// event. Beyond the snapshot result it emits one TierChanged message per
// forecaster whose tier moved, so the notification side can fan out without
// re-deriving the diff.
func (h *RankingHandlers) HandleLeaderboardRebuildRequested(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper("HandleLeaderboardRebuildRequested", &rankingevents.LeaderboardRebuildRequestedPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			rebuildPayload := payload.(*rankingevents.LeaderboardRebuildRequestedPayload)

			h.logger.InfoContext(ctx, "Received LeaderboardRebuildRequested event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("snapshot_id", rebuildPayload.SnapshotID.String()),
			)

			result, err := h.service.RebuildLeaderboard(ctx, rebuildPayload.SnapshotID)
			if err != nil {
				h.logger.ErrorContext(ctx, "Failed to rebuild leaderboard",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				return nil, fmt.Errorf("failed to rebuild leaderboard: %w", err)
			}

			if result.Failure != nil {
				h.logger.ErrorContext(ctx, "Leaderboard rebuild failed",
					attr.CorrelationIDFromMsg(msg),
					attr.Any("failure_payload", result.Failure),
				)

				failureMsg, errMsg := h.helpers.CreateResultMessage(
					msg,
					&rankingevents.LeaderboardUpdateFailedPayload{
						SnapshotID: result.Failure.SnapshotID,
						Reason:     result.Failure.Reason,
					},
					rankingevents.LeaderboardUpdateFailed,
				)
				if errMsg != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errMsg)
				}

				return []*message.Message{failureMsg}, nil
			}

			if result.Success != nil {
				messages := make([]*message.Message, 0, 1+len(result.Success.Transitions))

				successMsg, err := h.helpers.CreateResultMessage(
					msg,
					&rankingevents.LeaderboardUpdatedPayload{
						SnapshotID: result.Success.SnapshotID,
						Size:       len(result.Success.Entries),
					},
					rankingevents.LeaderboardUpdated,
				)
				if err != nil {
					return nil, fmt.Errorf("failed to create success message: %w", err)
				}
				messages = append(messages, successMsg)

				for _, transition := range result.Success.Transitions {
					tierMsg, err := h.helpers.CreateResultMessage(
						msg,
						&rankingevents.TierChangedPayload{
							ForecasterID: transition.ForecasterID,
							From:         transition.Transition.From,
							To:           transition.Transition.To,
							Promoted:     transition.Transition.Promoted,
						},
						rankingevents.TierChanged,
					)
					if err != nil {
						return nil, fmt.Errorf("failed to create tier change message: %w", err)
					}
					messages = append(messages, tierMsg)
				}

				return messages, nil
			}

			h.logger.ErrorContext(ctx, "Unexpected result from RebuildLeaderboard",
				attr.CorrelationIDFromMsg(msg),
			)
			return nil, fmt.Errorf("unexpected result from service")
		},
	)

	return wrappedHandler(msg)
}
