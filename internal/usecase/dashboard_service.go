package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/matchup"
)

// Dashboard is everything shown for one league on one screen.
type Dashboard struct {
	League           league.League
	Format           league.Format
	Week             int
	Standings        Standings
	Matchups         []matchup.Processed
	Elimination      []matchup.EliminationRow
	TransactionCount int
	Degraded         bool
	GeneratedAt      time.Time
}

type DashboardService struct {
	source       LeagueDataSource
	registry     league.Registry
	weeks        *WeekService
	standings    *StandingService
	matchups     *MatchupService
	transactions *TransactionService
	now          func() time.Time
}

func NewDashboardService(
	source LeagueDataSource,
	registry league.Registry,
	weeks *WeekService,
	standings *StandingService,
	matchups *MatchupService,
	transactions *TransactionService,
) *DashboardService {
	return &DashboardService{
		source:       source,
		registry:     registry,
		weeks:        weeks,
		standings:    standings,
		matchups:     matchups,
		transactions: transactions,
		now:          time.Now,
	}
}

func (s *DashboardService) Snapshot(ctx context.Context, leagueID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Snapshot")
	defer span.End()

	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{Format: entry.Format, GeneratedAt: s.now().UTC()}

	out.League, err = s.source.GetLeague(ctx, entry.ID)
	if err != nil {
		if !degradable(err) {
			return Dashboard{}, fmt.Errorf("get league: %w", err)
		}
		out.League = league.League{ID: entry.ID}
		out.Degraded = true
	}
	if strings.TrimSpace(entry.Name) != "" && out.League.Name == "" {
		out.League.Name = entry.Name
	}

	out.Week, err = s.weeks.CurrentWeek(ctx, entry.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("resolve current week: %w", err)
	}

	out.Standings, err = s.standings.ListByLeague(ctx, entry.ID)
	if err != nil {
		return Dashboard{}, err
	}

	if entry.Format == league.FormatElimination {
		ranked, err := s.matchups.EliminationByWeek(ctx, entry.ID, out.Week)
		if err != nil {
			return Dashboard{}, err
		}
		out.Elimination = ranked.Rows
		out.Matchups = ranked.Matchups
		out.Degraded = out.Degraded || ranked.Degraded
	} else {
		paired, err := s.matchups.ListByWeek(ctx, entry.ID, out.Week)
		if err != nil {
			return Dashboard{}, err
		}
		out.Matchups = paired.Matchups
		out.Degraded = out.Degraded || paired.Degraded
	}

	out.TransactionCount, err = s.transactions.CountByWeek(ctx, entry.ID, out.Week)
	if err != nil {
		return Dashboard{}, err
	}

	out.Degraded = out.Degraded || out.Standings.Degraded
	return out, nil
}
