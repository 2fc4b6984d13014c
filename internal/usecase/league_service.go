package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

type LeagueService struct {
	registry league.Registry
}

func NewLeagueService(registry league.Registry) *LeagueService {
	return &LeagueService{registry: registry}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.Entry, error) {
	leagues, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.Entry, error) {
	return lookupLeague(ctx, s.registry, leagueID)
}

// lookupLeague resolves a configured league. Ids outside the registry are treated as
// outside the allow-list.
func lookupLeague(ctx context.Context, registry league.Registry, leagueID string) (league.Entry, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.Entry{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	entry, exists, err := registry.GetByID(ctx, leagueID)
	if err != nil {
		return league.Entry{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.Entry{}, &NotAllowedError{LeagueID: leagueID}
	}

	return entry, nil
}
