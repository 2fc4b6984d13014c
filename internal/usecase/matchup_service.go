package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/week"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const historyFetchWorkers = 3

type WeekMatchups struct {
	LeagueID string
	Week     int
	Format   league.Format
	Degraded bool
	Matchups []matchup.Processed
}

type EliminationWeek struct {
	LeagueID string
	Week     int
	Degraded bool
	Rows     []matchup.EliminationRow
	Matchups []matchup.Processed
}

type MatchupService struct {
	source    LeagueDataSource
	registry  league.Registry
	weeks     *WeekService
	standings *StandingService
	logger    *logging.Logger
}

func NewMatchupService(
	source LeagueDataSource,
	registry league.Registry,
	weeks *WeekService,
	standings *StandingService,
	logger *logging.Logger,
) *MatchupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchupService{
		source:    source,
		registry:  registry,
		weeks:     weeks,
		standings: standings,
		logger:    logger,
	}
}

// weekInput is everything the derivers need for one league week.
type weekInput struct {
	entry       league.Entry
	week        int
	entries     []league.MatchupEntry
	teams       map[int]matchup.Team
	projections map[int]float64
}

// ListByWeek pairs the week's head-to-head games. A week <= 0 means the current week.
func (s *MatchupService) ListByWeek(ctx context.Context, leagueID string, w int) (WeekMatchups, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.ListByWeek")
	defer span.End()

	input, err := s.load(ctx, leagueID, w)
	if err != nil {
		if degradable(err) && input.entry.ID != "" {
			s.logger.WarnContext(ctx, "matchups degraded to empty view", "league_id", input.entry.ID, "week", input.week, "error", err)
			return WeekMatchups{LeagueID: input.entry.ID, Week: input.week, Format: input.entry.Format, Degraded: true, Matchups: []matchup.Processed{}}, nil
		}
		return WeekMatchups{}, err
	}

	items, err := matchup.Pair(input.entries, input.teams, input.projections, matchup.ModelForFormat(input.entry.Format), matchup.PairOptions{})
	if err != nil {
		return WeekMatchups{}, fmt.Errorf("pair matchups: %w", err)
	}

	return WeekMatchups{
		LeagueID: input.entry.ID,
		Week:     input.week,
		Format:   input.entry.Format,
		Matchups: items,
	}, nil
}

// EliminationByWeek ranks every roster for a last-place-out week.
func (s *MatchupService) EliminationByWeek(ctx context.Context, leagueID string, w int) (EliminationWeek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.EliminationByWeek")
	defer span.End()

	input, err := s.load(ctx, leagueID, w)
	if err != nil {
		if degradable(err) && input.entry.ID != "" {
			s.logger.WarnContext(ctx, "elimination ranking degraded to empty view", "league_id", input.entry.ID, "week", input.week, "error", err)
			return EliminationWeek{
				LeagueID: input.entry.ID,
				Week:     input.week,
				Degraded: true,
				Rows:     []matchup.EliminationRow{},
				Matchups: []matchup.Processed{},
			}, nil
		}
		return EliminationWeek{}, err
	}

	rows := matchup.RankElimination(input.entries, input.teams, input.projections)
	return EliminationWeek{
		LeagueID: input.entry.ID,
		Week:     input.week,
		Rows:     rows,
		Matchups: matchup.FieldMatchups(rows),
	}, nil
}

// load resolves the league and week, then gathers the week's rows, team identities and
// projections. On a degradable error the returned input still carries entry and week.
func (s *MatchupService) load(ctx context.Context, leagueID string, w int) (weekInput, error) {
	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return weekInput{}, err
	}
	input := weekInput{entry: entry}

	if w <= 0 {
		w, err = s.weeks.CurrentWeek(ctx, entry.ID)
		if err != nil {
			return weekInput{}, fmt.Errorf("resolve current week: %w", err)
		}
	}
	input.week = week.Clamp(w)

	input.entries, err = s.source.ListMatchups(ctx, entry.ID, input.week)
	if err != nil {
		return input, fmt.Errorf("list matchups: %w", err)
	}

	rows, rosters, err := s.standings.table(ctx, entry.ID)
	if err != nil {
		return input, err
	}
	input.teams = matchup.TeamsFromStandings(rows)

	history, err := s.history(ctx, entry.ID, input.week)
	if err != nil {
		return input, err
	}
	input.projections = matchup.Projections(input.week, matchup.Histories(history), rosters)

	return input, nil
}

// history fetches up to the trailing window of weeks before w, oldest first. Weeks that
// fail to load are left out of the average.
func (s *MatchupService) history(ctx context.Context, leagueID string, w int) ([][]league.MatchupEntry, error) {
	from := max(week.First, w-matchup.TrailingWeeks)
	if from >= w {
		return nil, nil
	}

	weeks := make([][]league.MatchupEntry, w-from)
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(historyFetchWorkers)
	for i := range weeks {
		p.Go(func(ctx context.Context) error {
			entries, err := s.source.ListMatchups(ctx, leagueID, from+i)
			if err != nil {
				if IsPermanent(err) || errors.Is(err, context.Canceled) {
					return err
				}
				s.logger.DebugContext(ctx, "history week skipped", "league_id", leagueID, "week", from+i, "error", err)
				return nil
			}
			weeks[i] = entries
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("list history matchups: %w", err)
	}

	return weeks, nil
}
