package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	badgeservice "github.com/calibrank/calibrank/app/modules/badge/application"
	rankingservice "github.com/calibrank/calibrank/app/modules/ranking/application"
	rankingdomain "github.com/calibrank/calibrank/app/modules/ranking/domain"
	rankingevents "github.com/calibrank/calibrank/app/modules/ranking/domain/events"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	syncservice "github.com/calibrank/calibrank/app/modules/sync/application"
	syncdomain "github.com/calibrank/calibrank/app/modules/sync/domain"
	syncevents "github.com/calibrank/calibrank/app/modules/sync/domain/events"
	"github.com/calibrank/calibrank/internal/results"
)

type fakeRanking struct {
	GetLeaderboardFunc        func(ctx context.Context, limit, offset int) ([]rankingdomain.LeaderboardEntry, error)
	GetForecasterStandingFunc func(ctx context.Context, forecasterID string) (*rankingservice.Standing, error)
}

func (f *fakeRanking) ProcessStatsUpdate(context.Context, string, rankingdomain.ForecasterStats, bool) (results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure], error) {
	return results.OperationResult[rankingevents.ScoreUpdatedPayload, rankingservice.StatsUpdateFailure]{}, nil
}

func (f *fakeRanking) RebuildLeaderboard(context.Context, uuid.UUID) (results.OperationResult[rankingservice.RebuildResult, rankingservice.RebuildFailure], error) {
	return results.OperationResult[rankingservice.RebuildResult, rankingservice.RebuildFailure]{}, nil
}

func (f *fakeRanking) GetLeaderboard(ctx context.Context, limit, offset int) ([]rankingdomain.LeaderboardEntry, error) {
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, limit, offset)
	}
	return nil, rankingdb.ErrNoActiveSnapshot
}

func (f *fakeRanking) GetForecasterStanding(ctx context.Context, forecasterID string) (*rankingservice.Standing, error) {
	if f.GetForecasterStandingFunc != nil {
		return f.GetForecasterStandingFunc(ctx, forecasterID)
	}
	return nil, rankingdb.ErrStatsNotFound
}

func (f *fakeRanking) GetForecasterHistory(context.Context, string) (rankingdomain.HistoryStats, error) {
	return rankingdomain.HistoryStats{}, nil
}

func (f *fakeRanking) GenerateRankHistoryChart(context.Context, string) ([]byte, error) {
	return []byte("\x89PNG fake"), nil
}

func (f *fakeRanking) ExportLeaderboard(context.Context) ([]byte, error) {
	return []byte("PK fake"), nil
}

type fakeBadges struct{}

func (fakeBadges) EvaluateForecaster(context.Context, string) (results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure], error) {
	return results.OperationResult[badgeservice.EvaluationResult, badgeservice.EvaluationFailure]{}, nil
}

func (fakeBadges) GetForecasterBadges(context.Context, string) ([]badgeservice.BadgeStatus, error) {
	return []badgeservice.BadgeStatus{
		{BadgeID: "first-forecast", Name: "First Forecast", Earned: true},
	}, nil
}

type fakeSync struct{}

func (fakeSync) RecordVerification(context.Context, string, string, []syncdomain.VerificationCheck) (results.OperationResult[syncevents.VerificationScoredPayload, syncservice.VerificationFailure], error) {
	return results.OperationResult[syncevents.VerificationScoredPayload, syncservice.VerificationFailure]{}, nil
}

func (fakeSync) GetForecasterVerifications(context.Context, string) ([]syncservice.SourceVerification, error) {
	return []syncservice.SourceVerification{
		{SourceID: "metaculus", Summary: syncdomain.VerificationSummary{Confidence: 67, Status: syncdomain.StatusFailed}},
	}, nil
}

func (fakeSync) ScheduleSource(context.Context, string, time.Duration) error { return nil }

func (fakeSync) EnqueueDuePolls(context.Context) (int, error) { return 0, nil }

func newTestServer(ranking rankingservice.Service) http.Handler {
	server := NewServer(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		ranking,
		fakeBadges{},
		fakeSync{},
		nil,
	)
	return server.Router()
}

func TestHealthz(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGetLeaderboard(t *testing.T) {
	ranking := &fakeRanking{
		GetLeaderboardFunc: func(_ context.Context, limit, offset int) ([]rankingdomain.LeaderboardEntry, error) {
			if limit != 2 || offset != 1 {
				t.Errorf("limit/offset = %d/%d, want 2/1", limit, offset)
			}
			return []rankingdomain.LeaderboardEntry{
				{ForecasterID: "b", Rank: 2},
				{ForecasterID: "c", Rank: 3},
			}, nil
		},
	}
	router := newTestServer(ranking)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=2&offset=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var entries []rankingdomain.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(entries) != 2 || entries[0].ForecasterID != "b" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestGetLeaderboard_NoSnapshotIs404(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetStanding(t *testing.T) {
	ranking := &fakeRanking{
		GetForecasterStandingFunc: func(_ context.Context, forecasterID string) (*rankingservice.Standing, error) {
			if forecasterID != "forecaster-1" {
				t.Errorf("forecaster ID = %q", forecasterID)
			}
			return &rankingservice.Standing{
				Entry:            rankingdomain.LeaderboardEntry{ForecasterID: forecasterID, Rank: 3},
				Percentile:       0.6,
				TotalForecasters: 540,
			}, nil
		},
	}
	router := newTestServer(ranking)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasters/forecaster-1/standing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var standing rankingservice.Standing
	if err := json.Unmarshal(rec.Body.Bytes(), &standing); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if standing.Percentile != 0.6 {
		t.Errorf("percentile = %v, want 0.6", standing.Percentile)
	}
}

func TestGetStanding_UnknownForecasterIs404(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasters/ghost/standing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetChart_ContentType(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasters/forecaster-1/chart", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
}

func TestGetBadges(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasters/forecaster-1/badges", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var statuses []badgeservice.BadgeStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &statuses); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(statuses) != 1 || statuses[0].BadgeID != "first-forecast" {
		t.Errorf("statuses = %+v", statuses)
	}
}

func TestGetSync(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/forecaster-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var verifications []syncservice.SourceVerification
	if err := json.Unmarshal(rec.Body.Bytes(), &verifications); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(verifications) != 1 || verifications[0].Summary.Confidence != 67 {
		t.Errorf("verifications = %+v", verifications)
	}
}

func TestExport_ContentDisposition(t *testing.T) {
	router := newTestServer(&fakeRanking{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected a Content-Disposition header")
	}
}
