package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/week"
)

type TransactionService struct {
	source   LeagueDataSource
	registry league.Registry
}

func NewTransactionService(source LeagueDataSource, registry league.Registry) *TransactionService {
	return &TransactionService{source: source, registry: registry}
}

// CountByWeek returns the number of completed moves in a week. Unreadable payloads
// count as zero.
func (s *TransactionService) CountByWeek(ctx context.Context, leagueID string, w int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransactionService.CountByWeek")
	defer span.End()

	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return 0, err
	}

	items, err := s.source.ListTransactions(ctx, entry.ID, week.Clamp(w))
	if err != nil {
		if degradable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	count := 0
	for _, item := range items {
		if item.Status == "" || item.Status == "complete" {
			count++
		}
	}
	return count, nil
}
