package rankingdomain

import (
	"cmp"
	"slices"
)

// RatedForecaster pairs a forecaster with its computed score and tier, ready
// for ranking.
type RatedForecaster struct {
	ForecasterID string
	Stats        ForecasterStats
	Score        Score
	Tier         Tier
	IsPrivate    bool
}

// LeaderboardEntry is one row of a ranking snapshot. Rank is 1-based and
// dense. PreviousRank is nil for a newly ranked forecaster.
type LeaderboardEntry struct {
	ForecasterID      string  `json:"forecaster_id"`
	Rank              int     `json:"rank"`
	PreviousRank      *int    `json:"previous_rank,omitempty"`
	Tier              Tier    `json:"tier"`
	CompositeScore    Score   `json:"composite_score"`
	BrierScore        float64 `json:"brier_score"`
	TotalForecasts    int     `json:"total_forecasts"`
	ResolvedForecasts int     `json:"resolved_forecasts"`
	StreakDays        int     `json:"streak_days"`
	IsPrivate         bool    `json:"is_private"`
}

// BuildLeaderboard sorts rated forecasters into a dense 1-based ranking and
// carries each forecaster's rank from the previous snapshot.
//
// The order is total: score descending, then Brier ascending (lower is
// better), then forecaster ID, so identical inputs always produce the
// identical board.
func BuildLeaderboard(rated []RatedForecaster, previousRanks map[string]int) []LeaderboardEntry {
	if len(rated) == 0 {
		return nil
	}

	sorted := make([]RatedForecaster, len(rated))
	copy(sorted, rated)

	slices.SortFunc(sorted, func(a, b RatedForecaster) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Stats.BrierScore, b.Stats.BrierScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ForecasterID, b.ForecasterID)
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, f := range sorted {
		entry := LeaderboardEntry{
			ForecasterID:      f.ForecasterID,
			Rank:              i + 1,
			Tier:              f.Tier,
			CompositeScore:    f.Score,
			BrierScore:        f.Stats.BrierScore,
			TotalForecasts:    f.Stats.TotalForecasts,
			ResolvedForecasts: f.Stats.ResolvedForecasts,
			StreakDays:        f.Stats.StreakDays,
			IsPrivate:         f.IsPrivate,
		}
		if prev, ok := previousRanks[f.ForecasterID]; ok {
			p := prev
			entry.PreviousRank = &p
		}
		entries[i] = entry
	}

	return entries
}
