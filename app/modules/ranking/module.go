// Package ranking assembles the ranking module: service, handlers, and
// router wiring.
package ranking

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	rankingservice "github.com/calibrank/calibrank/app/modules/ranking/application"
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	rankinghandlers "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/handlers"
	rankingrouter "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/router"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability"
	rankingmetrics "github.com/calibrank/calibrank/internal/observability/metrics/ranking"
)

// Module represents the ranking module.
type Module struct {
	EventBus       eventbus.EventBus
	RankingService rankingservice.Service
	RankingRouter  *rankingrouter.RankingRouter
	config         *config.Config
	observability  *observability.Observability
	cancelFunc     context.CancelFunc
}

// NewRankingModule wires the ranking service and its router.
func NewRankingModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	repo rankingdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers eventutil.Helpers,
) (*Module, error) {
	logger := obs.Logger.With("module", "ranking")
	metrics := rankingmetrics.NewPrometheusMetrics(obs.Registry)
	tracer := obs.Tracer

	thresholds, err := thresholdsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	service, err := rankingservice.NewRankingService(repo, eventBus, logger, metrics, tracer, thresholds)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking service: %w", err)
	}

	handlers := rankinghandlers.NewRankingHandlers(service, logger, tracer, helpers, metrics)

	rankingRouter := rankingrouter.NewRankingRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry)
	if err := rankingRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure ranking router: %w", err)
	}

	return &Module{
		EventBus:       eventBus,
		RankingService: service,
		RankingRouter:  rankingRouter,
		config:         cfg,
		observability:  obs,
	}, nil
}

// thresholdsFromConfig builds the tier table from configuration, falling back
// to the built-in table when none is configured.
func thresholdsFromConfig(cfg *config.Config) (rankingdomain.ThresholdTable, error) {
	if len(cfg.Ranking.TierThresholds) == 0 {
		return rankingdomain.DefaultThresholds, nil
	}

	table := make(rankingdomain.ThresholdTable, 0, len(cfg.Ranking.TierThresholds))
	for _, row := range cfg.Ranking.TierThresholds {
		tier, err := rankingdomain.ParseTier(row.Tier)
		if err != nil {
			return nil, fmt.Errorf("invalid tier threshold config: %w", err)
		}
		table = append(table, rankingdomain.TierThreshold{
			MinScore: rankingdomain.Score(row.MinScore),
			Tier:     tier,
		})
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier threshold config: %w", err)
	}
	return table, nil
}

// Run keeps the module alive until its context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting ranking module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Ranking module goroutine stopped")
}

// Close stops the ranking module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Ranking module stopped")
	return nil
}
