package rankingdb

import "errors"

var (
	// ErrStatsNotFound is returned when a forecaster has no stored stats.
	ErrStatsNotFound = errors.New("forecaster stats not found")

	// ErrNoActiveSnapshot is returned when no leaderboard snapshot has been
	// built yet.
	ErrNoActiveSnapshot = errors.New("no active leaderboard snapshot")
)
