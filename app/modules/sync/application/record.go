package syncservice

import (
	"context"
	"errors"
	"time"

	syncdomain "github.com/calibrank/calibrank/app/modules/sync/domain"
	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
	"github.com/calibrank/calibrank/internal/results"
)

// RecordVerification scores a fresh check set and stores the rollup.
//
// An invalid check is a domain failure, not an error: the sender gets the
// rejection payload and the message is not retried.
func (s *SyncService) RecordVerification(
	ctx context.Context,
	forecasterID string,
	sourceID string,
	checks []syncdomain.VerificationCheck,
) (results.OperationResult[syncevents.VerificationScoredPayload, VerificationFailure], error) {
	type op = results.OperationResult[syncevents.VerificationScoredPayload, VerificationFailure]

	return withTelemetry(s, ctx, "RecordVerification", func(ctx context.Context) (op, error) {
		if forecasterID == "" || sourceID == "" {
			return results.NewFailure[syncevents.VerificationScoredPayload](&VerificationFailure{
				ForecasterID: forecasterID,
				SourceID:     sourceID,
				Reason:       "missing forecaster or source ID",
			}), nil
		}

		summary, err := syncdomain.SummarizeAt(checks, s.now().UTC(), s.ttl)
		if err != nil {
			var invalid *syncdomain.InvalidCheckError
			if errors.As(err, &invalid) {
				s.logger.WarnContext(ctx, "Rejected verification checks",
					attr.ForecasterID("forecaster_id", forecasterID),
					attr.String("source_id", sourceID),
					attr.Error(err),
				)
				return results.NewFailure[syncevents.VerificationScoredPayload](&VerificationFailure{
					ForecasterID: forecasterID,
					SourceID:     sourceID,
					Reason:       err.Error(),
				}), nil
			}
			return op{}, err
		}

		dbStart := time.Now()
		err = s.repo.UpsertVerification(ctx, &syncdb.VerificationResultRecord{
			ForecasterID: forecasterID,
			SourceID:     sourceID,
			Confidence:   summary.Confidence,
			Status:       summary.Status,
			Checks:       checks,
		})
		s.metrics.RecordOperationDuration(ctx, "UpsertVerification", time.Since(dbStart))
		if err != nil {
			return op{}, err
		}

		s.metrics.RecordVerificationStatus(ctx, sourceID, string(summary.Status))
		s.logger.InfoContext(ctx, "Verification scored",
			attr.ForecasterID("forecaster_id", forecasterID),
			attr.String("source_id", sourceID),
			attr.Int("confidence", summary.Confidence),
			attr.String("status", string(summary.Status)),
		)

		return results.NewSuccess[syncevents.VerificationScoredPayload, VerificationFailure](&syncevents.VerificationScoredPayload{
			ForecasterID: forecasterID,
			SourceID:     sourceID,
			Summary:      summary,
		}), nil
	})
}

// GetForecasterVerifications returns a forecaster's rollups with freshness
// re-applied against the current clock.
func (s *SyncService) GetForecasterVerifications(ctx context.Context, forecasterID string) ([]SourceVerification, error) {
	records, err := s.repo.ListVerifications(ctx, forecasterID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	verifications := make([]SourceVerification, 0, len(records))
	for _, record := range records {
		summary, err := syncdomain.SummarizeAt(record.Checks, now, s.ttl)
		if err != nil {
			// Stored checks were validated on write; fall back to the
			// stored rollup rather than failing the whole read.
			summary = syncdomain.VerificationSummary{
				Confidence: record.Confidence,
				Status:     record.Status,
			}
		}
		verifications = append(verifications, SourceVerification{
			SourceID:  record.SourceID,
			Summary:   summary,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return verifications, nil
}
