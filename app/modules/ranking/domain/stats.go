package rankingdomain

// ForecasterStats is one immutable snapshot of a forecaster's raw statistics,
// as produced by the external ingestion service.
type ForecasterStats struct {
	TotalForecasts    int     `json:"total_forecasts"`
	ResolvedForecasts int     `json:"resolved_forecasts"`
	BrierScore        float64 `json:"brier_score"`
	CalibrationScore  float64 `json:"calibration_score"`
	Accuracy          float64 `json:"accuracy"`
	StreakDays        int     `json:"streak_days"`
}

// maxBrier is the upper bound of a multi-outcome Brier score. Binary markets
// top out at 1.0 but the general bound is 2.0.
const maxBrier = 2.0

// Validate checks every field against its legal range.
func (s ForecasterStats) Validate() error {
	if s.TotalForecasts < 0 {
		return &InvalidStatsError{Field: "total_forecasts", Value: float64(s.TotalForecasts), Reason: "must be non-negative"}
	}
	if s.ResolvedForecasts < 0 {
		return &InvalidStatsError{Field: "resolved_forecasts", Value: float64(s.ResolvedForecasts), Reason: "must be non-negative"}
	}
	if s.ResolvedForecasts > s.TotalForecasts {
		return &InvalidStatsError{Field: "resolved_forecasts", Value: float64(s.ResolvedForecasts), Reason: "cannot exceed total forecasts"}
	}
	if s.BrierScore < 0 || s.BrierScore > maxBrier {
		return &InvalidStatsError{Field: "brier_score", Value: s.BrierScore, Reason: "must be within [0, 2]"}
	}
	if s.CalibrationScore < 0 || s.CalibrationScore > 1 {
		return &InvalidStatsError{Field: "calibration_score", Value: s.CalibrationScore, Reason: "must be within [0, 1]"}
	}
	if s.Accuracy < 0 || s.Accuracy > 1 {
		return &InvalidStatsError{Field: "accuracy", Value: s.Accuracy, Reason: "must be within [0, 1]"}
	}
	if s.StreakDays < 0 {
		return &InvalidStatsError{Field: "streak_days", Value: float64(s.StreakDays), Reason: "must be non-negative"}
	}
	return nil
}
