package rankingdomain

// RankDelta is the signed change in leaderboard position between two
// snapshots. Positions is positive when the forecaster moved toward rank 1.
// IsNew marks a forecaster with no prior rank; a zero delta is a valid
// "unchanged" state distinct from new.
type RankDelta struct {
	Positions int  `json:"positions"`
	IsNew     bool `json:"is_new"`
}

// ComputeRankDelta compares the current rank against the previous snapshot.
// previous == nil means newly ranked.
//
// delta = previous - current: rank 1 is best, so a decreasing rank number is
// an improvement. The sign convention is load-bearing; do not flip it.
func ComputeRankDelta(current int, previous *int) (RankDelta, error) {
	if current < 1 {
		return RankDelta{}, &InvalidRankError{Rank: current}
	}
	if previous == nil {
		return RankDelta{IsNew: true}, nil
	}
	if *previous < 1 {
		return RankDelta{}, &InvalidRankError{Rank: *previous}
	}
	return RankDelta{Positions: *previous - current}, nil
}
