package rankingdomain

import (
	"cmp"
	"slices"
	"time"
)

// RankHistoryEntry is one dated snapshot of a forecaster's standing.
type RankHistoryEntry struct {
	Date             time.Time `json:"date"`
	Rank             int       `json:"rank"`
	Score            Score     `json:"score"`
	Tier             Tier      `json:"tier"`
	TotalForecasters int       `json:"total_forecasters"`
}

// TierChange is one step of the compressed tier-progression timeline.
type TierChange struct {
	Tier Tier      `json:"tier"`
	Date time.Time `json:"date"`
}

// HistoryStats is the reduction of a forecaster's rank history.
type HistoryStats struct {
	Entries           int          `json:"entries"`
	BestRank          int          `json:"best_rank"`
	WorstRank         int          `json:"worst_rank"`
	AverageRank       float64      `json:"average_rank"`
	RankImprovement   int          `json:"rank_improvement"`
	TierProgression   []TierChange `json:"tier_progression"`
	CurrentPercentile float64      `json:"current_percentile"`
}

// AggregateHistory reduces a sequence of history entries into summary stats.
//
// The input is re-sorted by date ascending rather than trusting caller order,
// with rank as a deterministic tie-break. A history-less forecaster is a
// normal state: the empty sequence yields the zero-value stats, never an
// error. A single entry yields improvement 0 and best = worst = average.
func AggregateHistory(entries []RankHistoryEntry) HistoryStats {
	if len(entries) == 0 {
		return HistoryStats{}
	}

	sorted := make([]RankHistoryEntry, len(entries))
	copy(sorted, entries)
	slices.SortFunc(sorted, func(a, b RankHistoryEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})

	stats := HistoryStats{
		Entries:   len(sorted),
		BestRank:  sorted[0].Rank,
		WorstRank: sorted[0].Rank,
	}

	rankSum := 0
	for _, entry := range sorted {
		rankSum += entry.Rank
		if entry.Rank < stats.BestRank {
			stats.BestRank = entry.Rank
		}
		if entry.Rank > stats.WorstRank {
			stats.WorstRank = entry.Rank
		}
	}

	// Rounding the average is a presentation concern, not done here.
	stats.AverageRank = float64(rankSum) / float64(len(sorted))
	stats.RankImprovement = sorted[0].Rank - sorted[len(sorted)-1].Rank
	stats.TierProgression = compressTierTimeline(sorted)

	latest := sorted[len(sorted)-1]
	if percentile, err := ComputePercentile(latest.Rank, latest.TotalForecasters); err == nil {
		stats.CurrentPercentile = percentile
	}

	return stats
}

// compressTierTimeline run-length-encodes the tier sequence: an entry is
// emitted only when the tier differs from the immediately preceding one. The
// first entry is always included.
func compressTierTimeline(sorted []RankHistoryEntry) []TierChange {
	timeline := make([]TierChange, 0, 1)
	for i, entry := range sorted {
		if i > 0 && entry.Tier == sorted[i-1].Tier {
			continue
		}
		timeline = append(timeline, TierChange{Tier: entry.Tier, Date: entry.Date})
	}
	return timeline
}
