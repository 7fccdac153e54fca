// Package badgerouter wires badge event handlers into the shared watermill
// router.
package badgerouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	badgeevents "github.com/calibrank/calibrank/app/modules/badge/domain/events"
	badgehandlers "github.com/calibrank/calibrank/app/modules/badge/infrastructure/handlers"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// BadgeRouter owns the subscriptions of the badge module.
type BadgeRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	tracer             trace.Tracer
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
}

// NewBadgeRouter creates a new instance of the router.
func NewBadgeRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	cfg *config.Config,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *BadgeRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &BadgeRouter{
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
func (r *BadgeRouter) Configure(ctx context.Context, handlers badgehandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Badge")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		eventutil.CommonMetadataMiddleware("badge"),
		middleware.Recoverer,
		eventutil.TraceHandler(r.tracer, r.logger),
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their handlers.
func (r *BadgeRouter) RegisterHandlers(ctx context.Context, handlers badgehandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Badge Event Handlers")

	eventsToHandlers := map[string]message.HandlerFunc{
		badgeevents.BadgeEvaluationRequested: handlers.HandleBadgeEvaluationRequested,
		rankingevents.ScoreUpdated:           handlers.HandleScoreUpdated,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := "badge." + topic
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
func (r *BadgeRouter) Close() error {
	return r.Router.Close()
}
