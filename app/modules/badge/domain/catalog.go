package badgedomain

import (
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

// Catalog is the built-in badge set. Order is stable; new badges go at the
// end of their category block so existing award rows keep their meaning.
var Catalog = []BadgeDefinition{
	{
		ID:          "first-forecast",
		Name:        "First Forecast",
		Description: "Resolve your first forecast.",
		Rarity:      RarityCommon,
		Category:    CategoryVolume,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 1
		},
	},
	{
		ID:          "century",
		Name:        "Century",
		Description: "Resolve 100 forecasts.",
		Rarity:      RarityUncommon,
		Category:    CategoryVolume,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 100
		},
	},
	{
		ID:          "millennium",
		Name:        "Millennium",
		Description: "Resolve 1000 forecasts.",
		Rarity:      RarityEpic,
		Category:    CategoryVolume,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 1000
		},
	},
	{
		ID:          "sharp-eye",
		Name:        "Sharp Eye",
		Description: "Reach 75% accuracy over at least 50 resolved forecasts.",
		Rarity:      RarityRare,
		Category:    CategoryAccuracy,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 50 && in.Stats.Accuracy >= 0.75
		},
	},
	{
		ID:          "oracle",
		Name:        "Oracle",
		Description: "Hold a Brier score below 0.15 over at least 100 resolved forecasts.",
		Rarity:      RarityLegendary,
		Category:    CategoryAccuracy,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 100 && in.Stats.BrierScore < 0.15
		},
	},
	{
		ID:          "well-calibrated",
		Name:        "Well Calibrated",
		Description: "Reach a calibration score of 0.85 over at least 50 resolved forecasts.",
		Rarity:      RarityRare,
		Category:    CategoryCalibration,
		Earned: func(in EvalInput) bool {
			return in.Stats.ResolvedForecasts >= 50 && in.Stats.CalibrationScore >= 0.85
		},
	},
	{
		ID:          "week-streak",
		Name:        "On a Roll",
		Description: "Forecast 7 days in a row.",
		Rarity:      RarityCommon,
		Category:    CategoryStreak,
		Earned: func(in EvalInput) bool {
			return in.Stats.StreakDays >= 7
		},
	},
	{
		ID:          "month-streak",
		Name:        "Relentless",
		Description: "Forecast 30 days in a row.",
		Rarity:      RarityRare,
		Category:    CategoryStreak,
		Earned: func(in EvalInput) bool {
			return in.Stats.StreakDays >= 30
		},
	},
	{
		ID:          "expert-tier",
		Name:        "Expert Standing",
		Description: "Reach the Expert tier.",
		Rarity:      RarityEpic,
		Category:    CategoryRank,
		Earned: func(in EvalInput) bool {
			return in.Tier.Compare(rankingdomain.TierExpert) >= 0
		},
	},
	{
		ID:          "top-percent",
		Name:        "One Percenter",
		Description: "Rank inside the top 1% of the leaderboard.",
		Rarity:      RarityLegendary,
		Category:    CategoryRank,
		Earned: func(in EvalInput) bool {
			return in.History.CurrentPercentile > 0 && in.History.CurrentPercentile <= 1.0
		},
	},
	{
		ID:          "podium",
		Name:        "Podium",
		Description: "Reach a best rank of 3 or better.",
		Rarity:      RarityEpic,
		Category:    CategoryRank,
		Earned: func(in EvalInput) bool {
			return in.History.BestRank >= 1 && in.History.BestRank <= 3
		},
	},
}

// CatalogByID indexes the catalog for lookup. Unknown IDs yield a nil entry.
func CatalogByID(id BadgeID) *BadgeDefinition {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}
