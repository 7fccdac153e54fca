package synchandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// HandleVerificationReceived handles the VerificationReceived event.
func (h *SyncHandlers) HandleVerificationReceived(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper("HandleVerificationReceived", &syncevents.VerificationReceivedPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			receivedPayload := payload.(*syncevents.VerificationReceivedPayload)

			h.logger.InfoContext(ctx, "Received VerificationReceived event",
				attr.CorrelationIDFromMsg(msg),
				attr.ForecasterID("forecaster_id", receivedPayload.ForecasterID),
				attr.String("source_id", receivedPayload.SourceID),
			)

			result, err := h.service.RecordVerification(ctx,
				receivedPayload.ForecasterID,
				receivedPayload.SourceID,
				receivedPayload.Checks,
			)
			if err != nil {
				h.logger.ErrorContext(ctx, "Failed to record verification",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				return nil, fmt.Errorf("failed to record verification: %w", err)
			}

			if result.Failure != nil {
				h.logger.WarnContext(ctx, "Verification rejected",
					attr.CorrelationIDFromMsg(msg),
					attr.Any("failure_payload", result.Failure),
				)

				failureMsg, errMsg := h.helpers.CreateResultMessage(
					msg,
					&syncevents.VerificationFailedPayload{
						ForecasterID: result.Failure.ForecasterID,
						SourceID:     result.Failure.SourceID,
						Reason:       result.Failure.Reason,
					},
					syncevents.VerificationFailed,
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
					syncevents.VerificationScored,
				)
				if err != nil {
					return nil, fmt.Errorf("failed to create success message: %w", err)
				}

				return []*message.Message{successMsg}, nil
			}

			h.logger.ErrorContext(ctx, "Unexpected result from RecordVerification",
				attr.CorrelationIDFromMsg(msg),
			)
			return nil, fmt.Errorf("unexpected result from service")
		},
	)

	return wrappedHandler(msg)
}
