// Package badgeevents defines the topics and payloads of the badge module.
package badgeevents

import (
	"time"

	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
)

// Topics.
const (
	BadgeEvaluationRequested = "badge.evaluation.requested"
	BadgeEvaluationFailed    = "badge.evaluation.failed"
	BadgeUnlocked            = "badge.unlocked"
)

// BadgeEvaluationRequestedPayload asks the badge module to re-evaluate one
// forecaster against the catalog.
type BadgeEvaluationRequestedPayload struct {
	ForecasterID string `json:"forecaster_id"`
}

// BadgeEvaluationFailedPayload is published when an evaluation cannot run.
type BadgeEvaluationFailedPayload struct {
	ForecasterID string `json:"forecaster_id"`
	Reason       string `json:"reason"`
}

// BadgeUnlockedPayload is published once per newly earned badge. Badges that
// were already held are never re-announced.
type BadgeUnlockedPayload struct {
	ForecasterID string               `json:"forecaster_id"`
	BadgeID      badgedomain.BadgeID  `json:"badge_id"`
	Rarity       badgedomain.Rarity   `json:"rarity"`
	Category     badgedomain.Category `json:"category"`
	EarnedAt     time.Time            `json:"earned_at"`
}
