package badgedb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// BadgeDBImpl implements Repository on bun.
type BadgeDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*BadgeDBImpl)(nil)

func (db *BadgeDBImpl) ListAwards(ctx context.Context, forecasterID string) ([]BadgeAwardRecord, error) {
	var records []BadgeAwardRecord
	err := db.DB.NewSelect().
		Model(&records).
		Where("forecaster_id = ?", forecasterID).
		Order("earned_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards for forecaster %s: %w", forecasterID, err)
	}
	return records, nil
}

func (db *BadgeDBImpl) InsertAwards(ctx context.Context, awards []BadgeAwardRecord) error {
	if len(awards) == 0 {
		return nil
	}

	_, err := db.DB.NewInsert().
		Model(&awards).
		On("CONFLICT (forecaster_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert badge awards: %w", err)
	}
	return nil
}
