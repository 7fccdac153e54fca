// Package app assembles the calibrank service: database, event bus, module
// routers, job queue, and the HTTP read side.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"

	"github.com/calibrank/calibrank/api"
	"github.com/calibrank/calibrank/app/modules/badge"
	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
	"github.com/calibrank/calibrank/app/modules/ranking"
	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
	syncmodule "github.com/calibrank/calibrank/app/modules/sync"
	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
	"github.com/calibrank/calibrank/config"
	"github.com/calibrank/calibrank/internal/database"
	"github.com/calibrank/calibrank/internal/eventbus"
	"github.com/calibrank/calibrank/internal/eventutil"
	"github.com/calibrank/calibrank/internal/observability"
)

// App holds the application's assembled components.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	Pool          *pgxpool.Pool
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPServer    *http.Server

	RankingModule *ranking.Module
	BadgeModule   *badge.Module
	SyncModule    *syncmodule.Module

	helpers eventutil.Helpers
}

// NewApp wires every component. Nothing starts running until Run.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db, err := database.NewBunDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	wmLogger := watermill.NewSlogLogger(logger)

	bus, err := eventbus.NewJetStreamEventBus(cfg.NATS.URL, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	helpers := eventutil.NewHelpers()

	rankingRepo := &rankingdb.RankingDBImpl{DB: db}
	badgeRepo := &badgedb.BadgeDBImpl{DB: db}
	syncRepo := &syncdb.SyncDBImpl{DB: db}

	rankingModule, err := ranking.NewRankingModule(ctx, cfg, obs, rankingRepo, bus, router, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking module: %w", err)
	}

	badgeModule, err := badge.NewBadgeModule(ctx, cfg, obs, badgeRepo, rankingRepo, bus, router, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to create badge module: %w", err)
	}

	syncModule, err := syncmodule.NewSyncModule(ctx, cfg, obs, syncRepo, pool, bus, router, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync module: %w", err)
	}

	server := api.NewServer(
		logger,
		rankingModule.RankingService,
		badgeModule.BadgeService,
		syncModule.SyncService,
		obs.Registry,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		Pool:          pool,
		EventBus:      bus,
		Router:        router,
		HTTPServer:    httpServer,
		RankingModule: rankingModule,
		BadgeModule:   badgeModule,
		SyncModule:    syncModule,
		helpers:       helpers,
	}, nil
}

// Run starts the watermill router, the module goroutines, and the HTTP
// server, and blocks until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	var wg sync.WaitGroup
	wg.Add(3)
	go app.RankingModule.Run(ctx, &wg)
	go app.BadgeModule.Run(ctx, &wg)
	go app.SyncModule.Run(ctx, &wg)

	go func() {
		logger.Info("HTTP server listening", "address", app.HTTPServer.Addr)
		if err := app.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	logger.Info("Starting watermill router")
	if err := app.Router.Run(ctx); err != nil {
		return fmt.Errorf("watermill router stopped: %w", err)
	}

	wg.Wait()
	return nil
}

// Close shuts everything down in reverse dependency order.
func (app *App) Close(ctx context.Context) error {
	logger := app.Observability.Logger

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.HTTPServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}

	_ = app.RankingModule.Close()
	_ = app.BadgeModule.Close()
	_ = app.SyncModule.Close()

	if err := app.Router.Close(); err != nil {
		logger.Error("Failed to close watermill router", "error", err)
	}
	if err := app.EventBus.Close(); err != nil {
		logger.Error("Failed to close event bus", "error", err)
	}

	app.Pool.Close()
	if err := app.DB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	logger.Info("Application shut down gracefully")
	return nil
}
