package rankingdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
)

// ForecasterStatsRecord is the stored stats snapshot for one forecaster,
// together with the score and tier derived from it.
type ForecasterStatsRecord struct {
	bun.BaseModel `bun:"table:forecaster_stats"`

	ForecasterID      string              `bun:"forecaster_id,pk"`
	TotalForecasts    int                 `bun:"total_forecasts,notnull"`
	ResolvedForecasts int                 `bun:"resolved_forecasts,notnull"`
	BrierScore        float64             `bun:"brier_score,notnull"`
	CalibrationScore  float64             `bun:"calibration_score,notnull"`
	Accuracy          float64             `bun:"accuracy,notnull"`
	StreakDays        int                 `bun:"streak_days,notnull"`
	CompositeScore    rankingdomain.Score `bun:"composite_score,notnull"`
	Tier              rankingdomain.Tier  `bun:"tier,notnull"`
	IsPrivate         bool                `bun:"is_private,notnull,default:false"`
	UpdatedAt         time.Time           `bun:"updated_at,notnull,default:current_timestamp"`
}

// Stats rebuilds the domain value from the stored columns.
func (r *ForecasterStatsRecord) Stats() rankingdomain.ForecasterStats {
	return rankingdomain.ForecasterStats{
		TotalForecasts:    r.TotalForecasts,
		ResolvedForecasts: r.ResolvedForecasts,
		BrierScore:        r.BrierScore,
		CalibrationScore:  r.CalibrationScore,
		Accuracy:          r.Accuracy,
		StreakDays:        r.StreakDays,
	}
}

// LeaderboardSnapshot is one stored ranking. Exactly one snapshot is active
// at a time; rebuilds insert a new active snapshot and retire the old one in
// the same transaction.
type LeaderboardSnapshot struct {
	bun.BaseModel `bun:"table:leaderboard_snapshots"`

	ID         int64                             `bun:"id,pk,autoincrement"`
	SnapshotID uuid.UUID                         `bun:"snapshot_id,notnull,type:uuid"`
	Entries    []rankingdomain.LeaderboardEntry  `bun:"entries,notnull,type:jsonb"`
	IsActive   bool                              `bun:"is_active,notnull,default:false"`
	CreatedAt  time.Time                         `bun:"created_at,notnull,default:current_timestamp"`
}

// RankHistoryRecord is one dated standing for one forecaster, appended on
// every snapshot rebuild.
type RankHistoryRecord struct {
	bun.BaseModel `bun:"table:rank_history"`

	ID               int64               `bun:"id,pk,autoincrement"`
	ForecasterID     string              `bun:"forecaster_id,notnull"`
	Date             time.Time           `bun:"date,notnull"`
	Rank             int                 `bun:"rank,notnull"`
	Score            rankingdomain.Score `bun:"score,notnull"`
	Tier             rankingdomain.Tier  `bun:"tier,notnull"`
	TotalForecasters int                 `bun:"total_forecasters,notnull"`
}

// HistoryEntry converts the stored row into the domain history entry.
func (r *RankHistoryRecord) HistoryEntry() rankingdomain.RankHistoryEntry {
	return rankingdomain.RankHistoryEntry{
		Date:             r.Date,
		Rank:             r.Rank,
		Score:            r.Score,
		Tier:             r.Tier,
		TotalForecasters: r.TotalForecasters,
	}
}
