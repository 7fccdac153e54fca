package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// RankingDBImpl implements Repository on bun.
type RankingDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*RankingDBImpl)(nil)

func (db *RankingDBImpl) UpsertStats(ctx context.Context, record *ForecasterStatsRecord) error {
	record.UpdatedAt = time.Now().UTC()

	_, err := db.DB.NewInsert().
		Model(record).
		On("CONFLICT (forecaster_id) DO UPDATE").
		Set("total_forecasts = EXCLUDED.total_forecasts").
		Set("resolved_forecasts = EXCLUDED.resolved_forecasts").
		Set("brier_score = EXCLUDED.brier_score").
		Set("calibration_score = EXCLUDED.calibration_score").
		Set("accuracy = EXCLUDED.accuracy").
		Set("streak_days = EXCLUDED.streak_days").
		Set("composite_score = EXCLUDED.composite_score").
		Set("tier = EXCLUDED.tier").
		Set("is_private = EXCLUDED.is_private").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for forecaster %s: %w", record.ForecasterID, err)
	}
	return nil
}

func (db *RankingDBImpl) GetStats(ctx context.Context, forecasterID string) (*ForecasterStatsRecord, error) {
	var record ForecasterStatsRecord
	err := db.DB.NewSelect().
		Model(&record).
		Where("forecaster_id = ?", forecasterID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to fetch stats for forecaster %s: %w", forecasterID, err)
	}
	return &record, nil
}

func (db *RankingDBImpl) ListStats(ctx context.Context) ([]ForecasterStatsRecord, error) {
	var records []ForecasterStatsRecord
	err := db.DB.NewSelect().
		Model(&records).
		Order("forecaster_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecaster stats: %w", err)
	}
	return records, nil
}

func (db *RankingDBImpl) GetActiveSnapshot(ctx context.Context) (*LeaderboardSnapshot, error) {
	var snapshot LeaderboardSnapshot
	err := db.DB.NewSelect().
		Model(&snapshot).
		Where("is_active = TRUE").
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSnapshot
		}
		return nil, fmt.Errorf("failed to fetch active snapshot: %w", err)
	}
	return &snapshot, nil
}

// SaveSnapshot retires the current active snapshot and inserts the new one
// as active, atomically.
func (db *RankingDBImpl) SaveSnapshot(ctx context.Context, snapshot *LeaderboardSnapshot) error {
	return db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*LeaderboardSnapshot)(nil)).
			Set("is_active = FALSE").
			Where("is_active = TRUE").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to retire active snapshot: %w", err)
		}

		snapshot.IsActive = true
		snapshot.CreatedAt = time.Now().UTC()
		if _, err := tx.NewInsert().Model(snapshot).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert snapshot %s: %w", snapshot.SnapshotID, err)
		}
		return nil
	})
}

func (db *RankingDBImpl) AppendRankHistory(ctx context.Context, records []RankHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := db.DB.NewInsert().Model(&records).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append %d rank history rows: %w", len(records), err)
	}
	return nil
}

func (db *RankingDBImpl) GetRankHistory(ctx context.Context, forecasterID string) ([]RankHistoryRecord, error) {
	var records []RankHistoryRecord
	err := db.DB.NewSelect().
		Model(&records).
		Where("forecaster_id = ?", forecasterID).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rank history for forecaster %s: %w", forecasterID, err)
	}
	return records, nil
}
