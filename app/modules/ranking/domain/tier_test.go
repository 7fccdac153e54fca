package rankingdomain

import (
	"errors"
	"testing"
)

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  Tier
	}{
		{"below every threshold falls through to lowest", -5, TierNovice},
		{"zero is novice", 0, TierNovice},
		{"just under apprentice", 299.9, TierNovice},
		{"exact threshold belongs to the tier it introduces", 300, TierApprentice},
		{"mid journeyman", 612, TierJourneyman},
		{"exact expert", 700, TierExpert},
		{"exact master", 850, TierMaster},
		{"top of scale", 1000, TierMaster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyTier(tt.score, DefaultThresholds)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyTier(%v) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestClassifyTier_Monotonic(t *testing.T) {
	scores := []Score{0, 150, 299, 300, 450, 500, 650, 700, 800, 850, 999}

	var prev Tier
	for i, score := range scores {
		tier, err := ClassifyTier(score, DefaultThresholds)
		if err != nil {
			t.Fatalf("unexpected error at score %v: %v", score, err)
		}
		if i > 0 && tier.Compare(prev) < 0 {
			t.Errorf("tier regressed from %s to %s between scores %v and %v", prev, tier, scores[i-1], score)
		}
		prev = tier
	}
}

func TestClassifyTier_SixLevelTable(t *testing.T) {
	sixLevel := ThresholdTable{
		{MinScore: 0, Tier: TierNovice},
		{MinScore: 250, Tier: TierApprentice},
		{MinScore: 450, Tier: TierJourneyman},
		{MinScore: 650, Tier: TierExpert},
		{MinScore: 800, Tier: TierMaster},
		{MinScore: 950, Tier: TierGrandmaster},
	}

	got, err := ClassifyTier(975, sixLevel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TierGrandmaster {
		t.Errorf("ClassifyTier(975) = %s, want %s", got, TierGrandmaster)
	}
}

func TestThresholdTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table ThresholdTable
	}{
		{"empty table", ThresholdTable{}},
		{"unsorted mins", ThresholdTable{
			{MinScore: 500, Tier: TierNovice},
			{MinScore: 300, Tier: TierApprentice},
		}},
		{"duplicate mins", ThresholdTable{
			{MinScore: 0, Tier: TierNovice},
			{MinScore: 0, Tier: TierApprentice},
		}},
		{"tier order regresses", ThresholdTable{
			{MinScore: 0, Tier: TierExpert},
			{MinScore: 500, Tier: TierNovice},
		}},
		{"unknown tier", ThresholdTable{
			{MinScore: 0, Tier: Tier("Wizard")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClassifyTier(100, tt.table)
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			var tableErr *ThresholdTableError
			if !errors.As(err, &tableErr) {
				t.Errorf("expected ThresholdTableError, got %T: %v", err, err)
			}
		})
	}
}

func TestTierTransitionBetween(t *testing.T) {
	tests := []struct {
		name         string
		from, to     Tier
		wantNil      bool
		wantPromoted bool
	}{
		{"promotion", TierApprentice, TierJourneyman, false, true},
		{"demotion", TierMaster, TierExpert, false, false},
		{"no change", TierExpert, TierExpert, true, false},
		{"multi-level promotion", TierNovice, TierMaster, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition := TierTransitionBetween(tt.from, tt.to)
			if tt.wantNil {
				if transition != nil {
					t.Fatalf("expected nil transition, got %+v", transition)
				}
				return
			}
			if transition == nil {
				t.Fatal("expected a transition, got nil")
			}
			if transition.Promoted != tt.wantPromoted {
				t.Errorf("Promoted = %v, want %v", transition.Promoted, tt.wantPromoted)
			}
		})
	}
}
