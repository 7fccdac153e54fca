// Package badgeservice implements badge evaluation and award bookkeeping.
package badgeservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/observability/attr"
	badgemetrics "github.com/calibrank/calibrank/internal/observability/metrics/badge"
	"github.com/calibrank/calibrank/internal/results"
)

// BadgeService implements the Service interface.
type BadgeService struct {
	repo        badgedb.Repository
	rankingRepo rankingdb.Repository
	EventBus    eventbus.EventBus
	logger      *slog.Logger
	metrics     badgemetrics.BadgeMetrics
	tracer      trace.Tracer
	catalog     []badgedomain.BadgeDefinition
	now         func() time.Time
}

// NewBadgeService creates a new BadgeService evaluating against the built-in
// catalog.
func NewBadgeService(
	repo badgedb.Repository,
	rankingRepo rankingdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics badgemetrics.BadgeMetrics,
	tracer trace.Tracer,
) *BadgeService {
	return &BadgeService{
		repo:        repo,
		rankingRepo: rankingRepo,
		EventBus:    eventBus,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		catalog:     badgedomain.Catalog,
		now:         time.Now,
	}
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

func withTelemetry[S any, F any](
	s *BadgeService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		return result, nil
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}
