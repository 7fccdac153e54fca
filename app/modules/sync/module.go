// Package sync assembles the sync module: service, handlers, router, and
// the river job queue that drives source polls.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"golang.org/x/time/rate"

	syncservice "github.com/calibrank/calibrank/app/modules/sync/application"
	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	synchandlers "github.com/calibrank/calibrank/app/modules/sync/infrastructure/handlers"
	syncrouter "github.com/calibrank/calibrank/app/modules/sync/infrastructure/router"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability"
	syncmetrics "github.com/calibrank/calibrank/internal/observability/metrics/sync"
)

const pollQueueWorkers = 10

// Module represents the sync module.
type Module struct {
	EventBus      eventbus.EventBus
	SyncService   syncservice.Service
	SyncRouter    *syncrouter.SyncRouter
	JobClient     *river.Client[pgx.Tx]
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewSyncModule wires the sync service, its router, and the job queue.
func NewSyncModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	repo syncdb.Repository,
	pool *pgxpool.Pool,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers eventutil.Helpers,
) (*Module, error) {
	logger := obs.Logger.With("module", "sync")
	metrics := syncmetrics.NewPrometheusMetrics(obs.Registry)
	tracer := obs.Tracer

	limiter := rate.NewLimiter(rate.Limit(cfg.Sync.PollRateLimit), 1)

	service := syncservice.NewSyncService(
		repo, eventBus, helpers, logger, metrics, tracer,
		nil, limiter, cfg.Sync.VerificationTTL,
	)

	workers := river.NewWorkers()
	river.AddWorker(workers, &syncservice.PollWorker{Service: service})
	river.AddWorker(workers, &syncservice.EnqueueDueWorker{Service: service})

	jobClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: pollQueueWorkers},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(cfg.Sync.PollInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return syncservice.EnqueueDueArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job client: %w", err)
	}
	service.SetJobClient(jobClient)

	handlers := synchandlers.NewSyncHandlers(service, logger, tracer, helpers, metrics)

	moduleRouter := syncrouter.NewSyncRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry)
	if err := moduleRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure sync router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		SyncService:   service,
		SyncRouter:    moduleRouter,
		JobClient:     jobClient,
		config:        cfg,
		observability: obs,
	}, nil
}

// Run starts the job queue and keeps the module alive until its context is
// canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting sync module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.JobClient.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start job client", "error", err)
		return
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := m.JobClient.Stop(stopCtx); err != nil {
		logger.Error("Failed to stop job client", "error", err)
	}

	logger.InfoContext(ctx, "Sync module goroutine stopped")
}

// Close stops the sync module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Sync module stopped")
	return nil
}
