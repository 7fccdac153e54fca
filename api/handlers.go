package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := s.ranking.GetLeaderboard(r.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, rankingdb.ErrNoActiveSnapshot) {
			s.respondError(w, r, http.StatusNotFound, "no leaderboard has been built yet")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to get leaderboard", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	workbook, err := s.ranking.ExportLeaderboard(r.Context())
	if err != nil {
		if errors.Is(err, rankingdb.ErrNoActiveSnapshot) {
			s.respondError(w, r, http.StatusNotFound, "no leaderboard has been built yet")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to export leaderboard", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (s *Server) handleStanding(w http.ResponseWriter, r *http.Request) {
	forecasterID := chi.URLParam(r, "forecasterID")

	standing, err := s.ranking.GetForecasterStanding(r.Context(), forecasterID)
	if err != nil {
		if errors.Is(err, rankingdb.ErrStatsNotFound) || errors.Is(err, rankingdb.ErrNoActiveSnapshot) {
			s.respondError(w, r, http.StatusNotFound, "forecaster is not on the leaderboard")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to get standing", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, r, http.StatusOK, standing)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	forecasterID := chi.URLParam(r, "forecasterID")

	history, err := s.ranking.GetForecasterHistory(r.Context(), forecasterID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to get history", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, r, http.StatusOK, history)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	forecasterID := chi.URLParam(r, "forecasterID")

	png, err := s.ranking.GenerateRankHistoryChart(r.Context(), forecasterID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render chart", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	forecasterID := chi.URLParam(r, "forecasterID")

	statuses, err := s.badges.GetForecasterBadges(r.Context(), forecasterID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to get badges", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, r, http.StatusOK, statuses)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	forecasterID := chi.URLParam(r, "forecasterID")

	verifications, err := s.sync.GetForecasterVerifications(r.Context(), forecasterID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to get verifications", attr.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, r, http.StatusOK, verifications)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
