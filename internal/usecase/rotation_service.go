package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

type TVStatus string

const (
	TVStatusLoading TVStatus = "loading"
	TVStatusReady   TVStatus = "ready"
	TVStatusError   TVStatus = "error"
)

// ConnectionIssueMessage is the only failure text shown on screen.
const ConnectionIssueMessage = "Connection issue. Retrying shortly."

// TVState is what the unattended screen shows right now.
type TVState struct {
	Status      TVStatus
	LeagueID    string
	LeagueIndex int
	LeagueCount int
	Dashboard   *Dashboard
	Message     string
	RetryCount  int
	RetryDelay  time.Duration
	UpdatedAt   time.Time
}

// TVPublisher receives every state change.
type TVPublisher interface {
	Publish(state TVState)
}

type RotationConfig struct {
	RotateInterval     time.Duration
	RefreshInterval    time.Duration
	RetryDelay         time.Duration
	InitialLoadTimeout time.Duration
}

func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		RotateInterval:     30 * time.Second,
		RefreshInterval:    60 * time.Second,
		RetryDelay:         10 * time.Second,
		InitialLoadTimeout: 10 * time.Second,
	}
}

func normalizeRotationConfig(cfg RotationConfig) RotationConfig {
	defaults := DefaultRotationConfig()
	if cfg.RotateInterval <= 0 {
		cfg.RotateInterval = defaults.RotateInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaults.RefreshInterval
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.InitialLoadTimeout <= 0 {
		cfg.InitialLoadTimeout = defaults.InitialLoadTimeout
	}
	return cfg
}

type dashboardSnapshotter interface {
	Snapshot(ctx context.Context, leagueID string) (Dashboard, error)
}

type cacheWarmer interface {
	Warm(ctx context.Context) (WarmResult, error)
}

// RotationService drives TV mode: it refreshes every league's dashboard on one timer
// and moves the screen to the next league on another.
type RotationService struct {
	snapshots dashboardSnapshotter
	warmer    cacheWarmer
	registry  league.Registry
	publisher TVPublisher
	cfg       RotationConfig
	logger    *logging.Logger
	now       func() time.Time

	mu         sync.RWMutex
	leagueIDs  []string
	dashboards map[string]Dashboard
	index      int
	retryCount int
	state      TVState
}

func NewRotationService(
	snapshots dashboardSnapshotter,
	warmer cacheWarmer,
	registry league.Registry,
	publisher TVPublisher,
	cfg RotationConfig,
	logger *logging.Logger,
) *RotationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RotationService{
		snapshots:  snapshots,
		warmer:     warmer,
		registry:   registry,
		publisher:  publisher,
		cfg:        normalizeRotationConfig(cfg),
		logger:     logger,
		now:        time.Now,
		dashboards: make(map[string]Dashboard),
		state:      TVState{Status: TVStatusLoading},
	}
}

func (s *RotationService) Current() TVState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Run blocks until ctx is done. The first load is bounded by InitialLoadTimeout; a
// failed refresh is retried after RetryDelay instead of waiting for the next tick.
func (s *RotationService) Run(ctx context.Context) error {
	s.publish(s.Current())

	initCtx, cancel := context.WithTimeout(ctx, s.cfg.InitialLoadTimeout)
	err := s.Refresh(initCtx)
	cancel()

	var retry <-chan time.Time
	if err != nil {
		retry = time.After(s.cfg.RetryDelay)
	}

	rotate := time.NewTicker(s.cfg.RotateInterval)
	defer rotate.Stop()
	refresh := time.NewTicker(s.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rotate.C:
			s.Advance()
		case <-refresh.C:
			if retry != nil {
				continue
			}
			if err := s.Refresh(ctx); err != nil {
				retry = time.After(s.cfg.RetryDelay)
			}
		case <-retry:
			retry = nil
			if err := s.Refresh(ctx); err != nil {
				retry = time.After(s.cfg.RetryDelay)
			}
		}
	}
}

// Refresh rebuilds every league's dashboard. Leagues that fail keep their previous
// dashboard; the refresh only fails when no league has anything to show.
func (s *RotationService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.Refresh")
	defer span.End()

	err := s.refresh(ctx)
	if err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

func (s *RotationService) refresh(ctx context.Context) error {
	leagues, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return fmt.Errorf("%w: no leagues configured", ErrNotFound)
	}

	if s.warmer != nil {
		if _, err := s.warmer.Warm(ctx); err != nil {
			s.logger.WarnContext(ctx, "cache warm failed", "error", err)
		}
	}

	ids := make([]string, 0, len(leagues))
	fresh := make(map[string]Dashboard, len(leagues))
	var firstErr error
	for _, entry := range leagues {
		ids = append(ids, entry.ID)
		dashboard, err := s.snapshots.Snapshot(ctx, entry.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "tv snapshot failed", "league_id", entry.ID, "error", err)
			firstErr = errors.Join(firstErr, err)
			continue
		}
		fresh[entry.ID] = dashboard
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, dashboard := range fresh {
		s.dashboards[id] = dashboard
	}
	s.leagueIDs = ids
	if s.index >= len(ids) {
		s.index = 0
	}
	if len(fresh) == 0 && !s.hasAnyLocked() {
		return firstErr
	}

	s.retryCount = 0
	s.state = s.screenLocked()
	s.publishLocked()
	return nil
}

// Advance moves the screen to the next league.
func (s *RotationService) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.leagueIDs) == 0 || s.state.Status == TVStatusError {
		return
	}
	s.index = (s.index + 1) % len(s.leagueIDs)
	s.state = s.screenLocked()
	s.publishLocked()
}

func (s *RotationService) fail(ctx context.Context, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.retryCount++
	s.logger.ErrorContext(ctx, "tv refresh failed",
		"retry_count", s.retryCount,
		"retry_in_ms", s.cfg.RetryDelay.Milliseconds(),
		"error", err,
	)
	s.state = TVState{
		Status:      TVStatusError,
		LeagueIndex: s.index,
		LeagueCount: len(s.leagueIDs),
		Message:     ConnectionIssueMessage,
		RetryCount:  s.retryCount,
		RetryDelay:  s.cfg.RetryDelay,
		UpdatedAt:   s.now().UTC(),
	}
	s.publishLocked()
}

func (s *RotationService) screenLocked() TVState {
	state := TVState{
		Status:      TVStatusReady,
		LeagueIndex: s.index,
		LeagueCount: len(s.leagueIDs),
		UpdatedAt:   s.now().UTC(),
	}
	if len(s.leagueIDs) == 0 {
		return state
	}

	state.LeagueID = s.leagueIDs[s.index]
	if dashboard, ok := s.dashboards[state.LeagueID]; ok {
		state.Dashboard = &dashboard
	} else {
		state.Status = TVStatusLoading
	}
	return state
}

func (s *RotationService) hasAnyLocked() bool {
	for _, id := range s.leagueIDs {
		if _, ok := s.dashboards[id]; ok {
			return true
		}
	}
	return false
}

func (s *RotationService) publishLocked() {
	if s.publisher != nil {
		s.publisher.Publish(s.state)
	}
}

func (s *RotationService) publish(state TVState) {
	if s.publisher != nil {
		s.publisher.Publish(state)
	}
}
