package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/standing"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

type Standings struct {
	LeagueID      string
	SeasonStarted bool
	Degraded      bool
	Rows          []standing.Row
}

type StandingService struct {
	source        LeagueDataSource
	registry      league.Registry
	avatarBaseURL string
	logger        *logging.Logger
}

func NewStandingService(source LeagueDataSource, registry league.Registry, avatarBaseURL string, logger *logging.Logger) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		source:        source,
		registry:      registry,
		avatarBaseURL: avatarBaseURL,
		logger:        logger,
	}
}

func (s *StandingService) ListByLeague(ctx context.Context, leagueID string) (Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ListByLeague")
	defer span.End()

	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return Standings{}, err
	}

	rows, _, err := s.table(ctx, entry.ID)
	if err != nil {
		if degradable(err) {
			s.logger.WarnContext(ctx, "standings degraded to empty view", "league_id", entry.ID, "error", err)
			return Standings{LeagueID: entry.ID, Degraded: true, Rows: []standing.Row{}}, nil
		}
		return Standings{}, err
	}

	return Standings{
		LeagueID:      entry.ID,
		SeasonStarted: standing.SeasonStarted(rows),
		Rows:          rows,
	}, nil
}

// table fetches users and rosters side by side and derives the ranked rows.
func (s *StandingService) table(ctx context.Context, leagueID string) ([]standing.Row, []league.Roster, error) {
	var (
		users    []league.User
		rosters  []league.Roster
		usersErr error
		rostErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		users, usersErr = s.source.ListUsers(ctx, leagueID)
	})
	wg.Go(func() {
		rosters, rostErr = s.source.ListRosters(ctx, leagueID)
	})
	wg.Wait()

	if rostErr != nil {
		return nil, nil, fmt.Errorf("list rosters: %w", rostErr)
	}
	if usersErr != nil {
		// rows fall back to placeholder owner names
		if !degradable(usersErr) {
			return nil, nil, fmt.Errorf("list users: %w", usersErr)
		}
		s.logger.WarnContext(ctx, "league users unavailable, using placeholder names", "league_id", leagueID, "error", usersErr)
		users = nil
	}

	rows := standing.Derive(users, rosters)
	for i := range rows {
		rows[i].AvatarURL = AvatarURL(s.avatarBaseURL, rows[i].AvatarID)
	}
	return rows, rosters, nil
}
