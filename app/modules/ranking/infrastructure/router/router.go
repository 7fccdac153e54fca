// Package rankingrouter wires ranking event handlers into the shared
// watermill router.
package rankingrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	rankinghandlers "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/handlers"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// RankingRouter owns the subscriptions of the ranking module.
type RankingRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	tracer             trace.Tracer
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
}

// NewRankingRouter creates a new instance of the router.
func NewRankingRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	cfg *config.Config,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *RankingRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &RankingRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		config:             cfg,
		tracer:             tracer,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
	}
}

// Configure sets up the middlewares and registers the module's handlers.
func (r *RankingRouter) Configure(ctx context.Context, handlers rankinghandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Ranking")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		eventutil.CommonMetadataMiddleware("ranking"),
		middleware.Recoverer,
		eventutil.TraceHandler(r.tracer, r.logger),
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their handlers. An empty publish
// topic lets each handler choose its destination through message metadata.
func (r *RankingRouter) RegisterHandlers(ctx context.Context, handlers rankinghandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Ranking Event Handlers")

	eventsToHandlers := map[string]message.HandlerFunc{
		rankingevents.ForecastStatsReceived:       handlers.HandleForecastStatsReceived,
		rankingevents.LeaderboardRebuildRequested: handlers.HandleLeaderboardRebuildRequested,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := "ranking." + topic
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			r.publisher,
			handlerFunc,
		)
	}

	return nil
}

// Close stops the router.
func (r *RankingRouter) Close() error {
	return r.Router.Close()
}
