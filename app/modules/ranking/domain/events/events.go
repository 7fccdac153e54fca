// Package rankingevents defines the topics and payloads the ranking module
// publishes and consumes.
package rankingevents

import (
	"github.com/google/uuid"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

// Topics. The ingestion service publishes forecast.* subjects; everything
// under ranking.* is owned by this module.
const (
	ForecastStatsReceived       = "forecast.stats.received"
	ScoreUpdated                = "ranking.score.updated"
	ScoreUpdateFailed           = "ranking.score.update.failed"
	LeaderboardRebuildRequested = "ranking.leaderboard.rebuild.requested"
	LeaderboardUpdated          = "ranking.leaderboard.updated"
	LeaderboardUpdateFailed     = "ranking.leaderboard.update.failed"
	TierChanged                 = "ranking.tier.changed"
)

// ForecastStatsReceivedPayload carries one forecaster's refreshed raw stats
// from the ingestion service.
type ForecastStatsReceivedPayload struct {
	ForecasterID string                        `json:"forecaster_id"`
	Stats        rankingdomain.ForecasterStats `json:"stats"`
	IsPrivate    bool                          `json:"is_private"`
}

// ScoreUpdatedPayload is published after a forecaster's composite score has
// been recomputed and stored.
type ScoreUpdatedPayload struct {
	ForecasterID string              `json:"forecaster_id"`
	Score        rankingdomain.Score `json:"score"`
	Tier         rankingdomain.Tier  `json:"tier"`
}

// ScoreUpdateFailedPayload is published when a stats update is rejected.
type ScoreUpdateFailedPayload struct {
	ForecasterID string `json:"forecaster_id"`
	Reason       string `json:"reason"`
}

// LeaderboardRebuildRequestedPayload asks the ranking module to produce a new
// snapshot from the current stats table.
type LeaderboardRebuildRequestedPayload struct {
	SnapshotID uuid.UUID `json:"snapshot_id"`
}

// LeaderboardUpdatedPayload is published once a new snapshot is active.
type LeaderboardUpdatedPayload struct {
	SnapshotID uuid.UUID `json:"snapshot_id"`
	Size       int       `json:"size"`
}

// LeaderboardUpdateFailedPayload is published when a rebuild cannot complete.
type LeaderboardUpdateFailedPayload struct {
	SnapshotID uuid.UUID `json:"snapshot_id"`
	Reason     string    `json:"reason"`
}

// TierChangedPayload is published for every forecaster whose tier moved
// between the previous and the new snapshot.
type TierChangedPayload struct {
	ForecasterID string             `json:"forecaster_id"`
	From         rankingdomain.Tier `json:"from"`
	To           rankingdomain.Tier `json:"to"`
	Promoted     bool               `json:"promoted"`
}
