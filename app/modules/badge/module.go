// Package badge assembles the badge module: service, handlers, and router
// wiring.
package badge

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	badgeservice "github.com/calibrank/calibrank/app/modules/badge/application"
	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
	badgehandlers "github.com/calibrank/calibrank/app/modules/badge/infrastructure/handlers"
	badgerouter "github.com/calibrank/calibrank/app/modules/badge/infrastructure/router"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability"
	badgemetrics "github.com/calibrank/calibrank/internal/observability/metrics/badge"
)

// Module represents the badge module.
type Module struct {
	EventBus      eventbus.EventBus
	BadgeService  badgeservice.Service
	BadgeRouter   *badgerouter.BadgeRouter
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewBadgeModule wires the badge service and its router.
func NewBadgeModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	repo badgedb.Repository,
	rankingRepo rankingdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers eventutil.Helpers,
) (*Module, error) {
	logger := obs.Logger.With("module", "badge")
	metrics := badgemetrics.NewPrometheusMetrics(obs.Registry)
	tracer := obs.Tracer

	service := badgeservice.NewBadgeService(repo, rankingRepo, eventBus, logger, metrics, tracer)

	handlers := badgehandlers.NewBadgeHandlers(service, logger, tracer, helpers, metrics)

	badgeRouter := badgerouter.NewBadgeRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry)
	if err := badgeRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure badge router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		BadgeService:  service,
		BadgeRouter:   badgeRouter,
		config:        cfg,
		observability: obs,
	}, nil
}

// Run keeps the module alive until its context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting badge module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Badge module goroutine stopped")
}

// Close stops the badge module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Badge module stopped")
	return nil
}
