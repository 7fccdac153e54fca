package eventutil

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/calibrank/calibrank/internal/observability/attr"
)

// CommonMetadataMiddleware stamps the owning module on every message passing
// through a router so consumers can attribute events.
func CommonMetadataMiddleware(module string) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			produced, err := h(msg)
			for _, m := range produced {
				if m.Metadata.Get("module") == "" {
					m.Metadata.Set("module", module)
				}
			}
			return produced, err
		}
	}
}

// TraceHandler opens a span per handled message and propagates the
// correlation ID onto the handler context.
func TraceHandler(tracer trace.Tracer, logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			ctx, span := tracer.Start(msg.Context(), "handle_message", trace.WithAttributes(
				attribute.String("message.uuid", msg.UUID),
				attribute.String("message.correlation_id", middleware.MessageCorrelationID(msg)),
			))
			defer span.End()

			ctx = attr.WithCorrelationID(ctx, middleware.MessageCorrelationID(msg))
			msg.SetContext(ctx)

			produced, err := h(msg)
			if err != nil {
				span.RecordError(err)
			}
			return produced, err
		}
	}
}
