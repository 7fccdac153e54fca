package rankingdomain

import "math"

// Score is a composite skill rating on a 0-1000 scale.
type Score float64

// Component weights of the composite score. They sum to 1 so the weighted
// blend stays inside [0, 1] before scaling.
const (
	weightCalibration = 0.35
	weightAccuracy    = 0.25
	weightBrier       = 0.25
	weightVolume      = 0.15

	// scoreScale maps the blended [0, 1] rating onto the display scale.
	scoreScale = 1000.0

	// volumeSaturation is the resolved-forecast count at which the volume
	// component reaches its maximum.
	volumeSaturation = 500

	// Streaks add at most streakBonusCap * streakBonusPerDay points on top
	// of the blend, capped so the total never leaves the 0-1000 scale.
	streakBonusPerDay = 0.5
	streakBonusDays   = 30
)

// ComputeCompositeScore derives the composite skill score from raw stats.
//
// The score is monotonically non-decreasing in calibration, accuracy, volume,
// and streak, and non-increasing in Brier score. It is deterministic: no
// clock, no randomness, no state.
func ComputeCompositeScore(stats ForecasterStats) (Score, error) {
	if err := stats.Validate(); err != nil {
		return 0, err
	}

	brierComponent := 1 - stats.BrierScore/maxBrier

	// Log-saturating volume: early forecasts move the needle, the thousandth
	// barely does.
	volumeComponent := math.Log1p(float64(stats.ResolvedForecasts)) / math.Log1p(volumeSaturation)
	if volumeComponent > 1 {
		volumeComponent = 1
	}

	blend := weightCalibration*stats.CalibrationScore +
		weightAccuracy*stats.Accuracy +
		weightBrier*brierComponent +
		weightVolume*volumeComponent

	streakBonus := streakBonusPerDay * float64(min(stats.StreakDays, streakBonusDays))

	score := blend*scoreScale + streakBonus
	if score > scoreScale {
		score = scoreScale
	}

	return Score(score), nil
}
