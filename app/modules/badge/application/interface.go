package badgeservice

import (
	"context"
	"time"

	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
	"github.com/calibrank/calibrank/internal/results"
)

// EarnedBadge is one badge newly unlocked by an evaluation.
type EarnedBadge struct {
	BadgeID  badgedomain.BadgeID  `json:"badge_id"`
	Rarity   badgedomain.Rarity   `json:"rarity"`
	Category badgedomain.Category `json:"category"`
	EarnedAt time.Time            `json:"earned_at"`
}

// EvaluationResult is the success payload of EvaluateForecaster. NewlyEarned
// holds only badges unlocked by this run; previously held badges are not
// repeated.
type EvaluationResult struct {
	ForecasterID string        `json:"forecaster_id"`
	NewlyEarned  []EarnedBadge `json:"newly_earned"`
}

// EvaluationFailure is the domain-level failure payload of
// EvaluateForecaster.
type EvaluationFailure struct {
	ForecasterID string `json:"forecaster_id"`
	Reason       string `json:"reason"`
}

// BadgeStatus is one catalog entry merged with a forecaster's award state.
type BadgeStatus struct {
	BadgeID     badgedomain.BadgeID  `json:"badge_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Rarity      badgedomain.Rarity   `json:"rarity"`
	Category    badgedomain.Category `json:"category"`
	Earned      bool                 `json:"earned"`
	EarnedAt    *time.Time           `json:"earned_at,omitempty"`
}

// Service defines the contract for badge operations.
type Service interface {
	// EvaluateForecaster re-runs the catalog against a forecaster's current
	// stats and history, persisting any newly earned badges.
	EvaluateForecaster(ctx context.Context, forecasterID string) (results.OperationResult[EvaluationResult, EvaluationFailure], error)

	// GetForecasterBadges returns the full catalog with earned state.
	GetForecasterBadges(ctx context.Context, forecasterID string) ([]BadgeStatus, error)
}
