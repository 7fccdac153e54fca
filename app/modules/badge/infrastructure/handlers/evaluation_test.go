package badgehandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	badgeservice "github.com/calibrank/calibrank/app/modules/badge/application"
	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
	badgeevents "github.com/calibrank/calibrank/app/modules/badge/domain/events"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/eventutil"
	badgemetrics "github.com/calibrank/calibrank/internal/observability/metrics/badge"
	"github.com/calibrank/calibrank/internal/results"
)

// FakeBadgeService satisfies badgeservice.Service with per-method overrides.
type FakeBadgeService struct {
	EvaluateForecasterFunc func(ctx context.Context, forecasterID string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error)
}

func (f *FakeBadgeService) EvaluateForecaster(ctx context.Context, forecasterID string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error) {
	if f.EvaluateForecasterFunc != nil {
		return f.EvaluateForecasterFunc(ctx, forecasterID)
	}
	return results.NewSuccess[badgeservice.EvaluationResult, badgeservice.EvaluationFailure](&badgeservice.EvaluationResult{
		ForecasterID: forecasterID,
	}), nil
}

func (f *FakeBadgeService) GetForecasterBadges(context.Context, string) ([]badgeservice.BadgeStatus, error) {
	return nil, nil
}

func newTestHandlers(service badgeservice.Service) Handlers {
	return NewBadgeHandlers(
		service,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
		eventutil.NewHelpers(),
		badgemetrics.NoopMetrics{},
	)
}

func marshalMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage(uuid.New().String(), data)
}

func TestHandleBadgeEvaluationRequested_EmitsUnlocks(t *testing.T) {
	earnedAt := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
	service := &FakeBadgeService{
		EvaluateForecasterFunc: func(_ context.Context, forecasterID string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error) {
			return results.NewSuccess[badgeservice.EvaluationResult, badgeservice.EvaluationFailure](&badgeservice.EvaluationResult{
				ForecasterID: forecasterID,
				NewlyEarned: []badgeservice.EarnedBadge{
					{BadgeID: "century", Rarity: badgedomain.RarityUncommon, Category: badgedomain.CategoryVolume, EarnedAt: earnedAt},
					{BadgeID: "week-streak", Rarity: badgedomain.RarityCommon, Category: badgedomain.CategoryStreak, EarnedAt: earnedAt},
				},
			}), nil
		},
	}

	handlers := newTestHandlers(service)

	out, err := handlers.HandleBadgeEvaluationRequested(marshalMessage(t, badgeevents.BadgeEvaluationRequestedPayload{
		ForecasterID: "forecaster-1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected one message per unlocked badge, got %d", len(out))
	}

	for _, msg := range out {
		if topic := msg.Metadata.Get(eventutil.TopicMetadataKey); topic != badgeevents.BadgeUnlocked {
			t.Errorf("outgoing topic = %q, want %q", topic, badgeevents.BadgeUnlocked)
		}
	}

	var first badgeevents.BadgeUnlockedPayload
	if err := json.Unmarshal(out[0].Payload, &first); err != nil {
		t.Fatalf("unmarshal unlocked payload: %v", err)
	}
	if first.BadgeID != "century" || first.ForecasterID != "forecaster-1" {
		t.Errorf("unlocked payload = %+v", first)
	}
}

func TestHandleBadgeEvaluationRequested_NothingNewIsQuiet(t *testing.T) {
	handlers := newTestHandlers(&FakeBadgeService{})

	out, err := handlers.HandleBadgeEvaluationRequested(marshalMessage(t, badgeevents.BadgeEvaluationRequestedPayload{
		ForecasterID: "forecaster-1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("no new badges should mean no messages, got %d", len(out))
	}
}

func TestHandleScoreUpdated_TriggersEvaluation(t *testing.T) {
	var evaluated string
	service := &FakeBadgeService{
		EvaluateForecasterFunc: func(_ context.Context, forecasterID string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error) {
			evaluated = forecasterID
			return results.NewSuccess[badgeservice.EvaluationResult, badgeservice.EvaluationFailure](&badgeservice.EvaluationResult{
				ForecasterID: forecasterID,
			}), nil
		},
	}

	handlers := newTestHandlers(service)

	_, err := handlers.HandleScoreUpdated(marshalMessage(t, rankingevents.ScoreUpdatedPayload{
		ForecasterID: "forecaster-9",
		Score:        700,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluated != "forecaster-9" {
		t.Errorf("evaluated %q, want forecaster-9", evaluated)
	}
}

func TestHandleBadgeEvaluationRequested_Failure(t *testing.T) {
	service := &FakeBadgeService{
		EvaluateForecasterFunc: func(_ context.Context, forecasterID string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error) {
			return results.NewFailure[badgeservice.EvaluationResult](&badgeservice.EvaluationFailure{
				ForecasterID: forecasterID,
				Reason:       "forecaster has no stats",
			}), nil
		},
	}

	handlers := newTestHandlers(service)

	out, err := handlers.HandleBadgeEvaluationRequested(marshalMessage(t, badgeevents.BadgeEvaluationRequestedPayload{
		ForecasterID: "ghost",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 failure message, got %d", len(out))
	}
	if topic := out[0].Metadata.Get(eventutil.TopicMetadataKey); topic != badgeevents.BadgeEvaluationFailed {
		t.Errorf("outgoing topic = %q, want %q", topic, badgeevents.BadgeEvaluationFailed)
	}
}
