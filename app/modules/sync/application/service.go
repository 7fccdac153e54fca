// Package syncservice scores verification evidence and drives the source
// poll schedule.
package syncservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability/attr"
	syncmetrics "github.com/calibrank/calibrank/internal/observability/metrics/sync"
	"github.com/calibrank/calibrank/internal/results"
)

// SyncService implements the Service interface.
type SyncService struct {
	repo     syncdb.Repository
	EventBus eventbus.EventBus
	helpers  eventutil.Helpers
	logger   *slog.Logger
	metrics  syncmetrics.SyncMetrics
	tracer   trace.Tracer
	jobs     JobInserter
	limiter  *rate.Limiter
	ttl      time.Duration
	now      func() time.Time
}

// NewSyncService creates a new SyncService. The limiter caps how fast poll
// jobs fan out verification requests; ttl is the evidence freshness window.
func NewSyncService(
	repo syncdb.Repository,
	eventBus eventbus.EventBus,
	helpers eventutil.Helpers,
	logger *slog.Logger,
	metrics syncmetrics.SyncMetrics,
	tracer trace.Tracer,
	jobs JobInserter,
	limiter *rate.Limiter,
	ttl time.Duration,
) *SyncService {
	return &SyncService{
		repo:     repo,
		EventBus: eventBus,
		helpers:  helpers,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		jobs:     jobs,
		limiter:  limiter,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetJobClient installs the river client after construction. The client's
// workers hold the service, so the two are wired in two steps.
func (s *SyncService) SetJobClient(jobs JobInserter) {
	s.jobs = jobs
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

func withTelemetry[S any, F any](
	s *SyncService,
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
