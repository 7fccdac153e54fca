package rankingdomain

import "fmt"

// InvalidStatsError reports a malformed or out-of-range forecaster statistic.
// Ranking inputs fail loudly instead of being clamped, because a silently
// coerced value produces a plausible-looking but wrong leaderboard.
type InvalidStatsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidStatsError) Error() string {
	return fmt.Sprintf("invalid forecaster stats: %s=%v (%s)", e.Field, e.Value, e.Reason)
}

// InvalidPopulationError reports a percentile computation over an impossible
// rank/population pair.
type InvalidPopulationError struct {
	Rank  int
	Total int
}

func (e *InvalidPopulationError) Error() string {
	return fmt.Sprintf("invalid population: rank=%d total=%d", e.Rank, e.Total)
}

// ThresholdTableError reports a tier threshold table that cannot produce a
// consistent classification.
type ThresholdTableError struct {
	Reason string
}

func (e *ThresholdTableError) Error() string {
	return fmt.Sprintf("invalid tier threshold table: %s", e.Reason)
}

// InvalidRankError reports a non-positive rank.
type InvalidRankError struct {
	Rank int
}

func (e *InvalidRankError) Error() string {
	return fmt.Sprintf("invalid rank: %d (ranks are 1-based)", e.Rank)
}
