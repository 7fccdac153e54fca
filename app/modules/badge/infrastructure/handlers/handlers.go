// Package badgehandlers consumes badge events off the bus and drives the
// badge service.
package badgehandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	badgeservice "github.com/calibrank/calibrank/app/modules/badge/application"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability/attr"
	badgemetrics "github.com/calibrank/calibrank/internal/observability/metrics/badge"
)

// BadgeHandlers handles badge-related events.
type BadgeHandlers struct {
	service        badgeservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        badgemetrics.BadgeMetrics
	helpers        eventutil.Helpers
	handlerWrapper func(handlerName string, unmarshalTo any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc
}

// NewBadgeHandlers creates a new BadgeHandlers.
func NewBadgeHandlers(
	service badgeservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	helpers eventutil.Helpers,
	metrics badgemetrics.BadgeMetrics,
) Handlers {
	return &BadgeHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		helpers: helpers,
		metrics: metrics,
		handlerWrapper: func(handlerName string, unmarshalTo any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc {
			return handlerWrapper(handlerName, unmarshalTo, handlerFunc, logger, metrics, tracer, helpers)
		},
	}
}

func handlerWrapper(
	handlerName string,
	unmarshalTo any,
	handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error),
	logger *slog.Logger,
	metrics badgemetrics.BadgeMetrics,
	tracer trace.Tracer,
	helpers eventutil.Helpers,
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName)
		defer span.End()

		metrics.RecordOperationAttempt(ctx, handlerName)

		startTime := time.Now()
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, time.Since(startTime))
		}()

		logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		if unmarshalTo != nil {
			if err := helpers.UnmarshalPayload(msg, unmarshalTo); err != nil {
				logger.ErrorContext(ctx, "Failed to unmarshal payload",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				metrics.RecordOperationFailure(ctx, handlerName)
				return nil, err
			}
		}

		messages, err := handlerFunc(ctx, msg, unmarshalTo)
		if err != nil {
			logger.ErrorContext(ctx, "Error in "+handlerName,
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			span.RecordError(err)
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		metrics.RecordOperationSuccess(ctx, handlerName)
		return messages, nil
	}
}
