package rankinghandlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	rankingservice "github.com/calibrank/calibrank/app/modules/ranking/application"
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/results"
)

func newStatsMessage(t *testing.T, payload rankingevents.ForecastStatsReceivedPayload) *message.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage(uuid.New().String(), data)
}

func TestHandleForecastStatsReceived_Success(t *testing.T) {
	service := &FakeRankingService{
		ProcessStatsUpdateFunc: func(_ context.Context, forecasterID string, _ rankingdomain.ForecasterStats, _ bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error) {
			return results.NewSuccess[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure](&rankingevents.ScoreUpdatedPayload{
				ForecasterID: forecasterID,
				Score:        742,
				Tier:         rankingdomain.TierExpert,
			}), nil
		},
	}

	handlers := newTestHandlers(service)

	msg := newStatsMessage(t, rankingevents.ForecastStatsReceivedPayload{
		ForecasterID: "forecaster-1",
		Stats: rankingdomain.ForecasterStats{
			TotalForecasts:    50,
			ResolvedForecasts: 40,
			BrierScore:        0.2,
			CalibrationScore:  0.8,
			Accuracy:          0.7,
		},
	})

	out, err := handlers.HandleForecastStatsReceived(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 outgoing message, got %d", len(out))
	}
	if topic := out[0].Metadata.Get(eventutil.TopicMetadataKey); topic != rankingevents.ScoreUpdated {
		t.Errorf("outgoing topic = %q, want %q", topic, rankingevents.ScoreUpdated)
	}

	var published rankingevents.ScoreUpdatedPayload
	if err := json.Unmarshal(out[0].Payload, &published); err != nil {
		t.Fatalf("unmarshal outgoing payload: %v", err)
	}
	if published.ForecasterID != "forecaster-1" || published.Tier != rankingdomain.TierExpert {
		t.Errorf("published payload = %+v", published)
	}
}

func TestHandleForecastStatsReceived_Failure(t *testing.T) {
	service := &FakeRankingService{
		ProcessStatsUpdateFunc: func(_ context.Context, forecasterID string, _ rankingdomain.ForecasterStats, _ bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error) {
			return results.NewFailure[rankingevents.ScoreUpdatedPayload](&rankingservice.StatsUpdateFailure{
				ForecasterID: forecasterID,
				Reason:       "brier_score out of range",
			}), nil
		},
	}

	handlers := newTestHandlers(service)

	out, err := handlers.HandleForecastStatsReceived(newStatsMessage(t, rankingevents.ForecastStatsReceivedPayload{
		ForecasterID: "forecaster-1",
	}))
	if err != nil {
		t.Fatalf("domain failure should not error the handler: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 outgoing message, got %d", len(out))
	}
	if topic := out[0].Metadata.Get(eventutil.TopicMetadataKey); topic != rankingevents.ScoreUpdateFailed {
		t.Errorf("outgoing topic = %q, want %q", topic, rankingevents.ScoreUpdateFailed)
	}
}

func TestHandleForecastStatsReceived_ServiceError(t *testing.T) {
	wantErr := errors.New("db down")
	service := &FakeRankingService{
		ProcessStatsUpdateFunc: func(context.Context, string, rankingdomain.ForecasterStats, bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error) {
			return results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure]{}, wantErr
		},
	}

	handlers := newTestHandlers(service)

	_, err := handlers.HandleForecastStatsReceived(newStatsMessage(t, rankingevents.ForecastStatsReceivedPayload{
		ForecasterID: "forecaster-1",
	}))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected service error to propagate, got: %v", err)
	}
}

func TestHandleForecastStatsReceived_BadPayload(t *testing.T) {
	handlers := newTestHandlers(&FakeRankingService{})

	_, err := handlers.HandleForecastStatsReceived(message.NewMessage(uuid.New().String(), []byte("not json")))
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
}
