package rankingdomain

import (
	"fmt"
	"sort"
)

// Tier represents a forecaster's skill tier.
type Tier string

const (
	TierNovice      Tier = "Novice"
	TierApprentice  Tier = "Apprentice"
	TierJourneyman  Tier = "Journeyman"
	TierExpert      Tier = "Expert"
	TierMaster      Tier = "Master"
	TierGrandmaster Tier = "Grandmaster"
)

// tierOrder defines the total order over tiers. Higher is better.
var tierOrder = map[Tier]int{
	TierNovice:      0,
	TierApprentice:  1,
	TierJourneyman:  2,
	TierExpert:      3,
	TierMaster:      4,
	TierGrandmaster: 5,
}

// Known reports whether t is a member of the tier enumeration.
func (t Tier) Known() bool {
	_, ok := tierOrder[t]
	return ok
}

// Compare returns -1, 0, or 1 as t is below, equal to, or above other.
func (t Tier) Compare(other Tier) int {
	a, b := tierOrder[t], tierOrder[other]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseTier converts a config string into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Known() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// TierThreshold is one row of the threshold table. MinScore is the inclusive
// lower bound of the tier's score range.
type TierThreshold struct {
	MinScore Score
	Tier     Tier
}

// ThresholdTable partitions the score axis into contiguous tier ranges.
// Rows are sorted by MinScore ascending; the lowest row is the fallthrough
// tier for any score below every threshold.
type ThresholdTable []TierThreshold

// DefaultThresholds is the canonical five-level table. Subsystems that need
// a different scheme supply their own table; nothing below hard-codes five
// rows.
var DefaultThresholds = ThresholdTable{
	{MinScore: 0, Tier: TierNovice},
	{MinScore: 300, Tier: TierApprentice},
	{MinScore: 500, Tier: TierJourneyman},
	{MinScore: 700, Tier: TierExpert},
	{MinScore: 850, Tier: TierMaster},
}

// Validate checks that the table is non-empty, sorted by ascending MinScore
// without duplicates, uses only known tiers, and ranks tiers in strictly
// ascending order so classification stays monotonic.
func (t ThresholdTable) Validate() error {
	if len(t) == 0 {
		return &ThresholdTableError{Reason: "table is empty"}
	}
	for i, row := range t {
		if !row.Tier.Known() {
			return &ThresholdTableError{Reason: fmt.Sprintf("row %d has unknown tier %q", i, row.Tier)}
		}
		if i == 0 {
			continue
		}
		if row.MinScore <= t[i-1].MinScore {
			return &ThresholdTableError{Reason: fmt.Sprintf("row %d min score %v does not increase", i, row.MinScore)}
		}
		if row.Tier.Compare(t[i-1].Tier) <= 0 {
			return &ThresholdTableError{Reason: fmt.Sprintf("row %d tier %q does not outrank %q", i, row.Tier, t[i-1].Tier)}
		}
	}
	return nil
}

// ClassifyTier maps a composite score onto a tier. The table is scanned from
// the highest threshold down; the first threshold the score meets or exceeds
// wins. A score exactly on a threshold belongs to the tier that threshold
// introduces. Scores below every threshold fall through to the lowest tier.
func ClassifyTier(score Score, table ThresholdTable) (Tier, error) {
	if err := table.Validate(); err != nil {
		return "", err
	}

	idx := sort.Search(len(table), func(i int) bool {
		return table[i].MinScore > score
	})
	if idx == 0 {
		return table[0].Tier, nil
	}
	return table[idx-1].Tier, nil
}

// TierTransition describes a tier change between two snapshots. Promoted is
// true only for strictly upward moves, never lateral or backward ones.
type TierTransition struct {
	From     Tier `json:"from"`
	To       Tier `json:"to"`
	Promoted bool `json:"promoted"`
}

// TierTransitionBetween returns the transition from one tier to another, or
// nil when the tier did not change.
func TierTransitionBetween(from, to Tier) *TierTransition {
	if from == to {
		return nil
	}
	return &TierTransition{
		From:     from,
		To:       to,
		Promoted: to.Compare(from) > 0,
	}
}
