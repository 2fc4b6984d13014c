package usecase

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/repository/memory"
)

type stubSource struct {
	mu sync.Mutex

	league       league.League
	users        []league.User
	rosters      []league.Roster
	matchups     map[int][]league.MatchupEntry
	transactions map[int][]league.Transaction
	drafts       []league.Draft
	picks        map[string][]league.DraftPick

	errs        map[string]error
	matchupErrs map[int]error
	weeksCalled []int
}

func (s *stubSource) errFor(kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[kind]
}

func (s *stubSource) GetLeague(_ context.Context, leagueID string) (league.League, error) {
	if err := s.errFor("league"); err != nil {
		return league.League{}, err
	}
	out := s.league
	out.ID = leagueID
	return out, nil
}

func (s *stubSource) ListUsers(context.Context, string) ([]league.User, error) {
	if err := s.errFor("users"); err != nil {
		return nil, err
	}
	return s.users, nil
}

func (s *stubSource) ListRosters(context.Context, string) ([]league.Roster, error) {
	if err := s.errFor("rosters"); err != nil {
		return nil, err
	}
	return s.rosters, nil
}

func (s *stubSource) ListMatchups(_ context.Context, _ string, week int) ([]league.MatchupEntry, error) {
	s.mu.Lock()
	s.weeksCalled = append(s.weeksCalled, week)
	err := s.matchupErrs[week]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.matchups[week], nil
}

func (s *stubSource) ListTransactions(_ context.Context, _ string, week int) ([]league.Transaction, error) {
	if err := s.errFor("transactions"); err != nil {
		return nil, err
	}
	return s.transactions[week], nil
}

func (s *stubSource) ListDrafts(context.Context, string) ([]league.Draft, error) {
	if err := s.errFor("drafts"); err != nil {
		return nil, err
	}
	return s.drafts, nil
}

func (s *stubSource) ListDraftPicks(_ context.Context, draftID string) ([]league.DraftPick, error) {
	if err := s.errFor("picks"); err != nil {
		return nil, err
	}
	return s.picks[draftID], nil
}

func (s *stubSource) calledWeeks() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.weeksCalled...)
}

func testRegistry() *memory.LeagueRegistry {
	return memory.NewLeagueRegistry([]league.Entry{
		{ID: "1180", Name: "Main League", Format: league.FormatHeadToHead},
		{ID: "2210", Name: "Guillotine", Format: league.FormatElimination},
		{ID: "3300", Name: "Office Pick'em", Format: league.FormatPickem},
	})
}

func ptr(v float64) *float64 { return &v }
