// Package badgedomain holds the badge catalog and the pure evaluation logic
// over forecaster achievement state.
package badgedomain

import (
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

// BadgeID identifies a badge in the catalog.
type BadgeID string

// Rarity grades how hard a badge is to earn. It is presentation metadata and
// intentionally independent of the skill tier axis.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Category groups badges by the dimension they reward.
type Category string

const (
	CategoryVolume      Category = "volume"
	CategoryAccuracy    Category = "accuracy"
	CategoryCalibration Category = "calibration"
	CategoryStreak      Category = "streak"
	CategoryRank        Category = "rank"
)

// EvalInput is everything badge predicates may look at. It is a snapshot;
// predicates must not reach for a clock or any other ambient state.
type EvalInput struct {
	Stats   rankingdomain.ForecasterStats
	Score   rankingdomain.Score
	Tier    rankingdomain.Tier
	History rankingdomain.HistoryStats
}

// BadgeDefinition is one catalog entry. Earned must be a pure function of
// its input so that evaluation stays deterministic and idempotent.
type BadgeDefinition struct {
	ID          BadgeID
	Name        string
	Description string
	Rarity      Rarity
	Category    Category
	Earned      func(EvalInput) bool
}

// BadgeEvaluation is the outcome of checking one catalog entry.
type BadgeEvaluation struct {
	BadgeID BadgeID
	Earned  bool
}

// EvaluateBadges runs every catalog predicate against the input. The result
// preserves catalog order and always has one element per definition.
func EvaluateBadges(input EvalInput, catalog []BadgeDefinition) []BadgeEvaluation {
	evaluations := make([]BadgeEvaluation, 0, len(catalog))
	for _, definition := range catalog {
		evaluations = append(evaluations, BadgeEvaluation{
			BadgeID: definition.ID,
			Earned:  definition.Earned != nil && definition.Earned(input),
		})
	}
	return evaluations
}
