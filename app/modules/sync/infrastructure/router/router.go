// Package syncrouter wires sync event handlers into the shared watermill
// router.
package syncrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	synchandlers "github.com/calibrank/calibrank/app/modules/sync/infrastructure/handlers"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// SyncRouter owns the subscriptions of the sync module.
type SyncRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	tracer             trace.Tracer
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
}

// NewSyncRouter creates a new instance of the router.
func NewSyncRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	cfg *config.Config,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *SyncRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &SyncRouter{
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
func (r *SyncRouter) Configure(ctx context.Context, handlers synchandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Sync")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		eventutil.CommonMetadataMiddleware("sync"),
		middleware.Recoverer,
		eventutil.TraceHandler(r.tracer, r.logger),
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their handlers.
func (r *SyncRouter) RegisterHandlers(ctx context.Context, handlers synchandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Sync Event Handlers")

	eventsToHandlers := map[string]message.HandlerFunc{
		syncevents.VerificationReceived: handlers.HandleVerificationReceived,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := "sync." + topic
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
func (r *SyncRouter) Close() error {
	return r.Router.Close()
}
