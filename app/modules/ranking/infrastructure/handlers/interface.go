package rankinghandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers is the contract the ranking router registers against.
type Handlers interface {
	HandleForecastStatsReceived(msg *message.Message) ([]*message.Message, error)
	HandleLeaderboardRebuildRequested(msg *message.Message) ([]*message.Message, error)
}
