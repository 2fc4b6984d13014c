package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/external/sleeper"
	"github.com/riskibarqy/fantasy-dashboard/internal/config"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/upstream"
	"github.com/riskibarqy/fantasy-dashboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
	"github.com/sourcegraph/conc"
)

const (
	upstreamBackoffMax    = 8 * time.Second
	upstreamBackoffFactor = 2.0
)

// App holds the HTTP server and the background loops that feed TV mode.
type App struct {
	Server *http.Server

	hub      *httpapi.Hub
	rotation *usecase.RotationService
	logger   *logging.Logger
	wg       conc.WaitGroup
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	registry := memory.NewLeagueRegistry(cfg.Leagues)

	client := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:        cfg.SleeperBaseURL,
		Timeout:        cfg.SleeperTimeout,
		AllowedLeagues: cfg.LeagueIDs(),
		Logger:         logger,
	})

	coordinator := upstream.NewCoordinator(client, upstream.Config{
		CacheTTL:    cfg.UpstreamCacheTTL,
		MinInterval: cfg.UpstreamMinInterval,
		Retry: resilience.RetryConfig{
			MaxAttempts: cfg.UpstreamMaxAttempts,
			Backoff: resilience.Backoff{
				Base:   cfg.UpstreamBackoffBase,
				Max:    upstreamBackoffMax,
				Factor: upstreamBackoffFactor,
			},
		},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UpstreamCircuitEnabled,
			FailureThreshold: cfg.UpstreamCircuitFailureCount,
			OpenTimeout:      cfg.UpstreamCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UpstreamCircuitHalfOpenReq,
		},
		Logger: logger,
	})

	leagueSvc := usecase.NewLeagueService(registry)
	weekSvc := usecase.NewWeekService(coordinator, registry, cfg.SeasonStart, logger)
	standingSvc := usecase.NewStandingService(coordinator, registry, cfg.SleeperAvatarBaseURL, logger)
	matchupSvc := usecase.NewMatchupService(coordinator, registry, weekSvc, standingSvc, logger)
	transactionSvc := usecase.NewTransactionService(coordinator, registry)
	draftSvc := usecase.NewDraftService(coordinator, registry, standingSvc, logger)
	dashboardSvc := usecase.NewDashboardService(coordinator, registry, weekSvc, standingSvc, matchupSvc, transactionSvc)
	warmer := usecase.NewWarmer(coordinator, registry, weekSvc, cfg.WarmWorkers, logger)

	hub := httpapi.NewHub(logger)
	rotation := usecase.NewRotationService(dashboardSvc, warmer, registry, hub, usecase.RotationConfig{
		RotateInterval:     cfg.TVRotateInterval,
		RefreshInterval:    cfg.TVRefreshInterval,
		RetryDelay:         cfg.TVRetryDelay,
		InitialLoadTimeout: cfg.TVInitialLoadTimeout,
	}, logger)

	handler := httpapi.NewHandler(
		leagueSvc,
		weekSvc,
		standingSvc,
		matchupSvc,
		draftSvc,
		dashboardSvc,
		rotation,
		hub,
		coordinator,
		cfg.CORSAllowedOrigins,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		hub:      hub,
		rotation: rotation,
		logger:   logger,
	}, nil
}

// Start launches the TV hub and rotation loops. They stop when ctx is done; call Wait
// to block until both have returned.
func (a *App) Start(ctx context.Context) {
	a.wg.Go(func() {
		a.hub.Run(ctx)
	})
	a.wg.Go(func() {
		if err := a.rotation.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("tv rotation stopped", "error", err)
		}
	})
}

func (a *App) Wait() {
	a.wg.Wait()
}
