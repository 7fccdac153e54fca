package rankingdomain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func day(n int) time.Time {
	return time.Date(2026, time.January, n, 0, 0, 0, 0, time.UTC)
}

func TestAggregateHistory(t *testing.T) {
	entries := []RankHistoryEntry{
		{Date: day(1), Rank: 15, Tier: TierApprentice, TotalForecasters: 500},
		{Date: day(2), Rank: 12, Tier: TierApprentice, TotalForecasters: 510},
		{Date: day(3), Rank: 8, Tier: TierJourneyman, TotalForecasters: 520},
		{Date: day(4), Rank: 5, Tier: TierJourneyman, TotalForecasters: 530},
		{Date: day(5), Rank: 3, Tier: TierExpert, TotalForecasters: 540},
	}

	got := AggregateHistory(entries)

	want := HistoryStats{
		Entries:         5,
		BestRank:        3,
		WorstRank:       15,
		AverageRank:     8.6,
		RankImprovement: 12,
		TierProgression: []TierChange{
			{Tier: TierApprentice, Date: day(1)},
			{Tier: TierJourneyman, Date: day(3)},
			{Tier: TierExpert, Date: day(5)},
		},
		CurrentPercentile: 0.6,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggregateHistory mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateHistory_ResortsCallerOrder(t *testing.T) {
	shuffled := []RankHistoryEntry{
		{Date: day(5), Rank: 3, Tier: TierExpert, TotalForecasters: 540},
		{Date: day(1), Rank: 15, Tier: TierApprentice, TotalForecasters: 500},
		{Date: day(3), Rank: 8, Tier: TierJourneyman, TotalForecasters: 520},
		{Date: day(4), Rank: 5, Tier: TierJourneyman, TotalForecasters: 530},
		{Date: day(2), Rank: 12, Tier: TierApprentice, TotalForecasters: 510},
	}

	got := AggregateHistory(shuffled)

	if got.RankImprovement != 12 {
		t.Errorf("RankImprovement = %d, want 12 (first-by-date minus last-by-date)", got.RankImprovement)
	}
	if got.CurrentPercentile != 0.6 {
		t.Errorf("CurrentPercentile = %v, want 0.6 (from the most recent entry)", got.CurrentPercentile)
	}
}

func TestAggregateHistory_Empty(t *testing.T) {
	got := AggregateHistory(nil)

	if diff := cmp.Diff(HistoryStats{}, got); diff != "" {
		t.Errorf("empty history must yield zero-value stats (-want +got):\n%s", diff)
	}
}

func TestAggregateHistory_SingleEntry(t *testing.T) {
	got := AggregateHistory([]RankHistoryEntry{
		{Date: day(1), Rank: 7, Tier: TierJourneyman, TotalForecasters: 100},
	})

	if got.BestRank != 7 || got.WorstRank != 7 || got.AverageRank != 7 {
		t.Errorf("single entry: best/worst/average = %d/%d/%v, want 7/7/7",
			got.BestRank, got.WorstRank, got.AverageRank)
	}
	if got.RankImprovement != 0 {
		t.Errorf("single entry RankImprovement = %d, want 0", got.RankImprovement)
	}
	if len(got.TierProgression) != 1 {
		t.Fatalf("single entry TierProgression length = %d, want 1", len(got.TierProgression))
	}
}

func TestAggregateHistory_FirstTierAlwaysInTimeline(t *testing.T) {
	entries := []RankHistoryEntry{
		{Date: day(1), Rank: 20, Tier: TierNovice, TotalForecasters: 100},
		{Date: day(2), Rank: 19, Tier: TierNovice, TotalForecasters: 100},
		{Date: day(3), Rank: 18, Tier: TierNovice, TotalForecasters: 100},
	}

	got := AggregateHistory(entries)

	want := []TierChange{{Tier: TierNovice, Date: day(1)}}
	if diff := cmp.Diff(want, got.TierProgression); diff != "" {
		t.Errorf("TierProgression mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateHistory_ZeroPopulationEntryDoesNotPanic(t *testing.T) {
	got := AggregateHistory([]RankHistoryEntry{
		{Date: day(1), Rank: 1, Tier: TierNovice, TotalForecasters: 0},
	})

	if got.CurrentPercentile != 0 {
		t.Errorf("CurrentPercentile = %v, want 0 when the population is unknown", got.CurrentPercentile)
	}
}
