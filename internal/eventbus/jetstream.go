// Package eventbus implements the NATS JetStream event bus used by every
// module router.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/calibrank/calibrank/internal/eventutil"
)

// EventBus is the publish/subscribe contract handed to routers and services.
// It satisfies both message.Publisher and message.Subscriber.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// JetStreamEventBus implements EventBus on NATS JetStream.
type JetStreamEventBus struct {
	logger     watermill.LoggerAdapter
	conn       *nc.Conn
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
}

var _ EventBus = (*JetStreamEventBus)(nil)

// Streams provisioned at startup. One stream per module, wildcard subjects.
var streamSubjects = map[string][]string{
	"forecast": {"forecast.>"},
	"ranking":  {"ranking.>"},
	"badge":    {"badge.>"},
	"sync":     {"sync.>"},
}

// NewJetStreamEventBus connects to NATS, provisions the module streams, and
// returns a ready event bus.
func NewJetStreamEventBus(natsURL string, logger watermill.LoggerAdapter) (*JetStreamEventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", err, watermill.LogFields{
					"subject": s.Subject,
					"queue":   s.Queue,
				})
			} else {
				logger.Error("Error in connection", err, nil)
			}
		}),
	}

	conn, err := nc.Connect(natsURL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		logger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:         natsURL,
			NatsOptions: options,
			Unmarshaler: &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		logger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &JetStreamEventBus{
		logger:     logger,
		conn:       conn,
		publisher:  publisher,
		subscriber: subscriber,
	}, nil
}

func ensureStreams(js nc.JetStreamContext) error {
	for stream, subjects := range streamSubjects {
		_, err := js.StreamInfo(stream)
		if err == nil {
			continue
		}
		if _, err := js.AddStream(&nc.StreamConfig{
			Name:      stream,
			Subjects:  subjects,
			Retention: nc.LimitsPolicy,
			Storage:   nc.FileStorage,
		}); err != nil {
			return fmt.Errorf("failed to provision stream %s: %w", stream, err)
		}
	}
	return nil
}

// Publish sends messages to the given topic. Handlers registered without a
// fixed publish topic route each message through its topic metadata instead.
func (b *JetStreamEventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		destination := topic
		if override := msg.Metadata.Get(eventutil.TopicMetadataKey); override != "" {
			destination = override
		}
		if destination == "" {
			return fmt.Errorf("message %s has no destination topic", msg.UUID)
		}
		if err := b.publisher.Publish(destination, msg); err != nil {
			return fmt.Errorf("failed to publish message %s to %s: %w", msg.UUID, destination, err)
		}
	}
	return nil
}

// Subscribe returns a channel of messages for the given topic.
func (b *JetStreamEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close shuts down the publisher, subscriber, and underlying connection.
func (b *JetStreamEventBus) Close() error {
	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close publisher: %w", err)
	}
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("failed to close subscriber: %w", err)
	}
	b.conn.Close()
	return nil
}
