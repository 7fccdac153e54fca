package rankingservice

import (
	"github.com/google/uuid"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

// StatsUpdateFailure is the domain-level failure payload for a rejected stats
// update.
type StatsUpdateFailure struct {
	ForecasterID string `json:"forecaster_id"`
	Reason       string `json:"reason"`
}

// TierTransitionEvent pairs a forecaster with the tier move a rebuild
// detected for them.
type TierTransitionEvent struct {
	ForecasterID string                       `json:"forecaster_id"`
	Transition   rankingdomain.TierTransition `json:"transition"`
}

// RebuildResult is the success payload of a leaderboard rebuild.
type RebuildResult struct {
	SnapshotID  uuid.UUID                        `json:"snapshot_id"`
	Entries     []rankingdomain.LeaderboardEntry `json:"entries"`
	Transitions []TierTransitionEvent            `json:"transitions"`
}

// RebuildFailure is the domain-level failure payload of a leaderboard
// rebuild.
type RebuildFailure struct {
	SnapshotID uuid.UUID `json:"snapshot_id"`
	Reason     string    `json:"reason"`
}

// Standing is one forecaster's current position enriched with delta and
// percentile.
type Standing struct {
	Entry            rankingdomain.LeaderboardEntry `json:"entry"`
	Delta            rankingdomain.RankDelta        `json:"delta"`
	Percentile       float64                        `json:"percentile"`
	TotalForecasters int                            `json:"total_forecasters"`
}
