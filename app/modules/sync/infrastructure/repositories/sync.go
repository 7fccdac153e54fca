package syncdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SyncDBImpl implements Repository on bun.
type SyncDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*SyncDBImpl)(nil)

func (db *SyncDBImpl) UpsertVerification(ctx context.Context, record *VerificationResultRecord) error {
	record.UpdatedAt = time.Now().UTC()

	_, err := db.DB.NewInsert().
		Model(record).
		On("CONFLICT (forecaster_id, source_id) DO UPDATE").
		Set("confidence = EXCLUDED.confidence").
		Set("status = EXCLUDED.status").
		Set("checks = EXCLUDED.checks").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert verification for forecaster %s source %s: %w",
			record.ForecasterID, record.SourceID, err)
	}
	return nil
}

func (db *SyncDBImpl) ListVerifications(ctx context.Context, forecasterID string) ([]VerificationResultRecord, error) {
	var records []VerificationResultRecord
	err := db.DB.NewSelect().
		Model(&records).
		Where("forecaster_id = ?", forecasterID).
		Order("source_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications for forecaster %s: %w", forecasterID, err)
	}
	return records, nil
}

func (db *SyncDBImpl) UpsertSchedule(ctx context.Context, record *SyncScheduleRecord) error {
	_, err := db.DB.NewInsert().
		Model(record).
		On("CONFLICT (source_id) DO UPDATE").
		Set("interval_seconds = EXCLUDED.interval_seconds").
		Set("next_run_at = EXCLUDED.next_run_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule for source %s: %w", record.SourceID, err)
	}
	return nil
}

func (db *SyncDBImpl) ListDueSchedules(ctx context.Context, now time.Time) ([]SyncScheduleRecord, error) {
	var records []SyncScheduleRecord
	err := db.DB.NewSelect().
		Model(&records).
		Where("next_run_at <= ?", now).
		Order("next_run_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list due schedules: %w", err)
	}
	return records, nil
}

func (db *SyncDBImpl) MarkRun(ctx context.Context, sourceID string, ranAt time.Time) error {
	_, err := db.DB.NewUpdate().
		Model((*SyncScheduleRecord)(nil)).
		Set("last_run_at = ?", ranAt).
		Set("next_run_at = ? + interval_seconds * interval '1 second'", ranAt).
		Where("source_id = ?", sourceID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark run for source %s: %w", sourceID, err)
	}
	return nil
}
