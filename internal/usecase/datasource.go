package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

// LeagueDataSource is the read-only view of the upstream fantasy API used by the derivers.
type LeagueDataSource interface {
	GetLeague(ctx context.Context, leagueID string) (league.League, error)
	ListUsers(ctx context.Context, leagueID string) ([]league.User, error)
	ListRosters(ctx context.Context, leagueID string) ([]league.Roster, error)
	ListMatchups(ctx context.Context, leagueID string, week int) ([]league.MatchupEntry, error)
	ListTransactions(ctx context.Context, leagueID string, week int) ([]league.Transaction, error)
	ListDrafts(ctx context.Context, leagueID string) ([]league.Draft, error)
	ListDraftPicks(ctx context.Context, draftID string) ([]league.DraftPick, error)
}
