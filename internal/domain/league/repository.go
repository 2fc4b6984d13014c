package league

import "context"

// Registry lists the leagues configured for display.
type Registry interface {
	List(ctx context.Context) ([]Entry, error)
	GetByID(ctx context.Context, leagueID string) (Entry, bool, error)
}
