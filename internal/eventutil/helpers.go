// Package eventutil holds the message construction helpers and router
// middleware shared by every module's handlers.
package eventutil

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

// TopicMetadataKey carries the destination topic on outgoing messages. The
// eventbus publisher routes on it, which lets one handler emit results to
// multiple topics.
const TopicMetadataKey = "topic"

// Helpers constructs and deconstructs event messages.
type Helpers interface {
	// CreateResultMessage builds an outgoing message that inherits the
	// correlation ID of the message being handled.
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
	// CreateNewMessage builds an outgoing message with a fresh correlation ID.
	CreateNewMessage(payload any, topic string) (*message.Message, error)
	// UnmarshalPayload decodes a message body into the given target.
	UnmarshalPayload(msg *message.Message, target any) error
}

type helpers struct{}

// NewHelpers returns the JSON-encoded implementation of Helpers.
func NewHelpers() Helpers {
	return helpers{}
}

func (helpers) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set(TopicMetadataKey, topic)

	if original != nil {
		if correlationID := middleware.MessageCorrelationID(original); correlationID != "" {
			middleware.SetCorrelationID(correlationID, msg)
		}
	}

	return msg, nil
}

func (h helpers) CreateNewMessage(payload any, topic string) (*message.Message, error) {
	msg, err := h.CreateResultMessage(nil, payload, topic)
	if err != nil {
		return nil, err
	}
	middleware.SetCorrelationID(uuid.New().String(), msg)
	return msg, nil
}

func (helpers) UnmarshalPayload(msg *message.Message, target any) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal message %s: %w", msg.UUID, err)
	}
	return nil
}
