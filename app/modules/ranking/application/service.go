package rankingservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/eventbus"
	rankingmetrics "github.com/calibrank/calibrank/internal/observability/metrics/ranking"
	"github.com/calibrank/calibrank/internal/observability/attr"
	"github.com/calibrank/calibrank/internal/results"
)

// RankingService implements the Service interface.
type RankingService struct {
	repo       rankingdb.Repository
	EventBus   eventbus.EventBus
	logger     *slog.Logger
	metrics    rankingmetrics.RankingMetrics
	tracer     trace.Tracer
	thresholds rankingdomain.ThresholdTable
	now        func() time.Time
}

// NewRankingService creates a new RankingService. The threshold table is the
// canonical one from configuration; every classification in the system goes
// through it.
func NewRankingService(
	repo rankingdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics rankingmetrics.RankingMetrics,
	tracer trace.Tracer,
	thresholds rankingdomain.ThresholdTable,
) (*RankingService, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("ranking service rejected threshold table: %w", err)
	}
	return &RankingService{
		repo:       repo,
		EventBus:   eventBus,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		thresholds: thresholds,
		now:        time.Now,
	}, nil
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any, F any](
	s *RankingService,
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

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.ExtractCorrelationID(ctx),
	)

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

	s.logger.InfoContext(ctx, operationName+" completed successfully",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}
