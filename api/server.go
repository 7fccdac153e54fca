// Package api exposes the read side over HTTP. All mutations flow through
// the event bus; these routes only serve current state.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	badgeservice "github.com/calibrank/calibrank/app/modules/badge/application"
	rankingservice "github.com/calibrank/calibrank/app/modules/ranking/application"
	syncservice "github.com/calibrank/calibrank/app/modules/sync/application"
	"github.com/calibrank/calibrank/internal/observability/attr"
)

// Server serves the read-side HTTP API.
type Server struct {
	logger   *slog.Logger
	ranking  rankingservice.Service
	badges   badgeservice.Service
	sync     syncservice.Service
	registry *prometheus.Registry
}

// NewServer creates a Server over the three module services.
func NewServer(
	logger *slog.Logger,
	ranking rankingservice.Service,
	badges badgeservice.Service,
	syncSvc syncservice.Service,
	registry *prometheus.Registry,
) *Server {
	return &Server{
		logger:   logger,
		ranking:  ranking,
		badges:   badges,
		sync:     syncSvc,
		registry: registry,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/export", s.handleLeaderboardExport)
		r.Route("/forecasters/{forecasterID}", func(r chi.Router) {
			r.Get("/standing", s.handleStanding)
			r.Get("/history", s.handleHistory)
			r.Get("/chart", s.handleChart)
			r.Get("/badges", s.handleBadges)
		})
		r.Get("/sync/{forecasterID}", s.handleSync)
	})

	return r
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode response", attr.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondJSON(w, r, status, errorResponse{Error: message})
}
