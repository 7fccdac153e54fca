package badgehandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers is the contract the badge router registers against.
type Handlers interface {
	HandleBadgeEvaluationRequested(msg *message.Message) ([]*message.Message, error)
	HandleScoreUpdated(msg *message.Message) ([]*message.Message, error)
}
