package badgedomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

func strongInput() EvalInput {
	return EvalInput{
		Stats: rankingdomain.ForecasterStats{
			TotalForecasts:    1200,
			ResolvedForecasts: 1100,
			BrierScore:        0.12,
			CalibrationScore:  0.9,
			Accuracy:          0.8,
			StreakDays:        45,
		},
		Score: 900,
		Tier:  rankingdomain.TierMaster,
		History: rankingdomain.HistoryStats{
			BestRank:          2,
			CurrentPercentile: 0.4,
		},
	}
}

func TestEvaluateBadges_OneResultPerDefinition(t *testing.T) {
	evaluations := EvaluateBadges(strongInput(), Catalog)
	if len(evaluations) != len(Catalog) {
		t.Fatalf("got %d evaluations for %d definitions", len(evaluations), len(Catalog))
	}
	for i, evaluation := range evaluations {
		if evaluation.BadgeID != Catalog[i].ID {
			t.Errorf("evaluation %d is %q, want catalog order %q", i, evaluation.BadgeID, Catalog[i].ID)
		}
	}
}

func TestEvaluateBadges_Idempotent(t *testing.T) {
	input := strongInput()
	first := EvaluateBadges(input, Catalog)
	second := EvaluateBadges(input, Catalog)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("evaluation not deterministic (-first +second):\n%s", diff)
	}
}

func TestEvaluateBadges_EmptyCatalog(t *testing.T) {
	evaluations := EvaluateBadges(strongInput(), nil)
	if evaluations == nil || len(evaluations) != 0 {
		t.Errorf("empty catalog should yield an empty slice, got %v", evaluations)
	}
}

func TestEvaluateBadges_ZeroValueInputEarnsNothing(t *testing.T) {
	for _, evaluation := range EvaluateBadges(EvalInput{}, Catalog) {
		if evaluation.Earned {
			t.Errorf("badge %q earned on a zero-value forecaster", evaluation.BadgeID)
		}
	}
}

func TestCatalogPredicates(t *testing.T) {
	tests := []struct {
		name    string
		badgeID BadgeID
		input   EvalInput
		want    bool
	}{
		{
			name:    "first forecast earned at one resolved",
			badgeID: "first-forecast",
			input:   EvalInput{Stats: rankingdomain.ForecasterStats{TotalForecasts: 1, ResolvedForecasts: 1}},
			want:    true,
		},
		{
			name:    "century not earned at 99",
			badgeID: "century",
			input:   EvalInput{Stats: rankingdomain.ForecasterStats{TotalForecasts: 99, ResolvedForecasts: 99}},
			want:    false,
		},
		{
			name:    "sharp eye needs sample size",
			badgeID: "sharp-eye",
			input:   EvalInput{Stats: rankingdomain.ForecasterStats{TotalForecasts: 10, ResolvedForecasts: 10, Accuracy: 0.9}},
			want:    false,
		},
		{
			name:    "oracle at the boundary is not earned",
			badgeID: "oracle",
			input:   EvalInput{Stats: rankingdomain.ForecasterStats{TotalForecasts: 100, ResolvedForecasts: 100, BrierScore: 0.15}},
			want:    false,
		},
		{
			name:    "expert tier earned by higher tiers too",
			badgeID: "expert-tier",
			input:   EvalInput{Tier: rankingdomain.TierGrandmaster},
			want:    true,
		},
		{
			name:    "top percent not earned without a ranking",
			badgeID: "top-percent",
			input:   EvalInput{History: rankingdomain.HistoryStats{CurrentPercentile: 0}},
			want:    false,
		},
		{
			name:    "podium earned at rank 3",
			badgeID: "podium",
			input:   EvalInput{History: rankingdomain.HistoryStats{BestRank: 3}},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			definition := CatalogByID(tt.badgeID)
			if definition == nil {
				t.Fatalf("badge %q not in catalog", tt.badgeID)
			}
			if got := definition.Earned(tt.input); got != tt.want {
				t.Errorf("badge %q earned = %v, want %v", tt.badgeID, got, tt.want)
			}
		})
	}
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[BadgeID]bool)
	for _, definition := range Catalog {
		if seen[definition.ID] {
			t.Errorf("duplicate badge ID %q", definition.ID)
		}
		seen[definition.ID] = true
	}
}
