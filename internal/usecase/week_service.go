package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/week"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

type WeekService struct {
	source      LeagueDataSource
	registry    league.Registry
	seasonStart time.Time
	now         func() time.Time
	logger      *logging.Logger
}

func NewWeekService(source LeagueDataSource, registry league.Registry, seasonStart time.Time, logger *logging.Logger) *WeekService {
	if logger == nil {
		logger = logging.Default()
	}
	if seasonStart.IsZero() {
		seasonStart = week.DefaultSeasonStart
	}
	return &WeekService{
		source:      source,
		registry:    registry,
		seasonStart: seasonStart,
		now:         time.Now,
		logger:      logger,
	}
}

// CurrentWeek scans weeks 1..provisional in order and returns the first one with data.
// The scan is sequential: the earliest populated week must win. A week that fails to
// load counts as empty, except for errors no later week could recover from.
func (s *WeekService) CurrentWeek(ctx context.Context, leagueID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.CurrentWeek")
	defer span.End()

	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return 0, err
	}

	provisional := week.Provisional(s.now(), s.seasonStart)
	for w := week.First; w <= provisional; w++ {
		entries, err := s.source.ListMatchups(ctx, entry.ID, w)
		if err != nil {
			if IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return 0, err
			}
			s.logger.DebugContext(ctx, "week scan skipped week", "league_id", entry.ID, "week", w, "error", err)
			continue
		}
		if week.HasData(entries) {
			return w, nil
		}
	}

	return week.Fallback(entry.Format, provisional), nil
}
