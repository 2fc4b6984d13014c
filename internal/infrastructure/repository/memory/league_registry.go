package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

// LeagueRegistry is the static allow-list of leagues, kept in configuration order.
type LeagueRegistry struct {
	mu     sync.RWMutex
	items  map[string]league.Entry
	orders []string
}

var _ league.Registry = (*LeagueRegistry)(nil)

func NewLeagueRegistry(entries []league.Entry) *LeagueRegistry {
	items := make(map[string]league.Entry, len(entries))
	orders := make([]string, 0, len(entries))

	for _, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			continue
		}
		if _, dup := items[e.ID]; !dup {
			orders = append(orders, e.ID)
		}
		items[e.ID] = e
	}

	return &LeagueRegistry{
		items:  items,
		orders: orders,
	}
}

func (r *LeagueRegistry) List(_ context.Context) ([]league.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Entry, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRegistry) GetByID(_ context.Context, leagueID string) (league.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[strings.TrimSpace(leagueID)]
	if !ok {
		return league.Entry{}, false, nil
	}

	return e, true, nil
}

// IDs returns the allow-listed league ids in configuration order.
func (r *LeagueRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.orders...)
}
