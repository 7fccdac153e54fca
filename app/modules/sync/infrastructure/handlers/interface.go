package synchandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers is the contract the sync router registers against.
type Handlers interface {
	HandleVerificationReceived(msg *message.Message) ([]*message.Message, error)
}
